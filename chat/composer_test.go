package chat

import (
	"context"
	"errors"
	"testing"
)

type fakeSender struct {
	sent   []string
	edited map[string]string
	err    error
}

func (f *fakeSender) Send(_ context.Context, content string) (*MessageView, error) {
	f.sent = append(f.sent, content)
	return &MessageView{ID: "new", Content: content}, nil
}

func (f *fakeSender) Edit(_ context.Context, id, content string) (*MessageView, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.edited == nil {
		f.edited = make(map[string]string)
	}
	f.edited[id] = content
	return &MessageView{ID: id, Content: content}, nil
}

func TestComposerSendsWhenNotEditing(t *testing.T) {
	var c Composer
	f := &fakeSender{}
	if _, err := c.Submit(context.Background(), f, "hello"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(f.sent) != 1 || len(f.edited) != 0 {
		t.Errorf("expected one send and no edit, got %+v", f)
	}
}

func TestComposerEditsWhileEditing(t *testing.T) {
	var c Composer
	f := &fakeSender{}
	c.BeginEdit("m1")

	if _, err := c.Submit(context.Background(), f, "fixed"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if f.edited["m1"] != "fixed" || len(f.sent) != 0 {
		t.Errorf("expected edit of m1, got %+v", f)
	}
	if _, editing := c.Editing(); editing {
		t.Error("editing should end after a successful edit")
	}
}

func TestComposerKeepsEditingOnFailure(t *testing.T) {
	var c Composer
	f := &fakeSender{err: errors.New("boom")}
	c.BeginEdit("m1")

	if _, err := c.Submit(context.Background(), f, "fixed"); err == nil {
		t.Fatal("expected error")
	}
	if id, editing := c.Editing(); !editing || id != "m1" {
		t.Errorf("expected to still be editing m1, got %q %v", id, editing)
	}
}

func TestComposerInputContent(t *testing.T) {
	messages := []MessageView{{ID: "m1", Content: "first"}, {ID: "m2", Content: "second"}}
	var c Composer

	if _, ok := c.InputContent(messages); ok {
		t.Error("no draft expected when not editing")
	}
	c.BeginEdit("m2")
	if got, ok := c.InputContent(messages); !ok || got != "second" {
		t.Errorf("expected draft %q, got %q %v", "second", got, ok)
	}
	c.BeginEdit("gone")
	if _, ok := c.InputContent(messages); ok {
		t.Error("no draft expected for a message not in the list")
	}
	c.Clear()
	if _, editing := c.Editing(); editing {
		t.Error("Clear should end editing")
	}
}
