package chat

import (
	"context"
	"sync"
	"testing"

	"huddle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachMember(t *testing.T) {
	s, rec := newTestService(t)
	ctx := context.Background()
	_, err := s.EnsureUser(ctx, "alice")
	require.NoError(t, err)

	ch, joined, err := s.AttachMember(ctx, "general", "alice")
	require.NoError(t, err)
	assert.True(t, joined)
	assert.Equal(t, "general", ch.Name)

	again, joined, err := s.AttachMember(ctx, "general", "alice")
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Equal(t, ch.ID, again.ID)

	members, err := s.Members(ctx, "general")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].Username)
	assert.Equal(t, []string{"member.joined"}, rec.names())
}

func TestAttachMemberConcurrentFirstVisits(t *testing.T) {
	s, rec := newTestService(t)
	ctx := context.Background()
	_, err := s.EnsureUser(ctx, "alice")
	require.NoError(t, err)

	const visits = 8
	var wg sync.WaitGroup
	results := make(chan bool, visits)
	errs := make(chan error, visits)
	for i := 0; i < visits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, joined, err := s.AttachMember(ctx, "general", "alice")
			if err != nil {
				errs <- err
				return
			}
			results <- joined
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("AttachMember() error = %v", err)
	}
	joins := 0
	for joined := range results {
		if joined {
			joins++
		}
	}
	assert.Equal(t, 1, joins)

	var rows int64
	require.NoError(t, s.db.Model(&models.UserChannel{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
	var channels int64
	require.NoError(t, s.db.Model(&models.Channel{}).Count(&channels).Error)
	assert.Equal(t, int64(1), channels)
	assert.Len(t, rec.names(), 1)
}

func TestAttachMemberErrors(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := s.AttachMember(ctx, "general", "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.EnsureUser(ctx, "alice")
	require.NoError(t, err)
	for _, name := range []string{"", " general", "general "} {
		_, _, err = s.AttachMember(ctx, name, "alice")
		assert.ErrorIs(t, err, ErrInvalidChannel, "name %q", name)
	}
}

func TestJoinedChannelsAndLeave(t *testing.T) {
	s, rec := newTestService(t)
	ctx := context.Background()
	withMember(t, s, "random", "alice")
	withMember(t, s, "general", "alice")
	withMember(t, s, "general", "bob")

	channels, err := s.JoinedChannels(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "general", channels[0].Name)
	assert.Equal(t, "random", channels[1].Name)

	require.NoError(t, s.Leave(ctx, "general", "alice"))
	assert.ErrorIs(t, s.Leave(ctx, "general", "alice"), ErrNotMember)
	assert.ErrorIs(t, s.Leave(ctx, "nowhere", "alice"), ErrChannelNotFound)

	members, err := s.Members(ctx, "general")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "bob", members[0].Username)
	assert.Equal(t, "member.left", rec.names()[len(rec.names())-1])
}
