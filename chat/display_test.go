package chat

import "testing"

func TestStringToHue(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"alice", 0},
		{"Alice", 88},
		{"bob", 157},
		{"brave-otter-4k2q9z", 213},
		{"a very long username that overflows the int32 range", 301},
		{"😀", 259},
	}
	for _, tt := range tests {
		if got := StringToHue(tt.in); got != tt.want {
			t.Errorf("StringToHue(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStringToHueIsDeterministicAndInRange(t *testing.T) {
	for _, name := range []string{"alice", "zebra-yak-000000", "日本語", "x"} {
		first := StringToHue(name)
		for i := 0; i < 3; i++ {
			if got := StringToHue(name); got != first {
				t.Fatalf("StringToHue(%q) changed from %d to %d", name, first, got)
			}
		}
		if first < 0 || first >= 360 {
			t.Errorf("StringToHue(%q) = %d out of range", name, first)
		}
	}
}

func TestUserColor(t *testing.T) {
	if got := UserColor("bob"); got != "hsl(157, 90%, 50%)" {
		t.Errorf("UserColor(bob) = %q", got)
	}
}

func TestCanModify(t *testing.T) {
	msg := MessageView{ClientID: "alice"}
	tests := []struct {
		viewer string
		want   bool
	}{
		{"alice", true},
		{"Alice", false},
		{"alice ", false},
		{"bob", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := CanModify(tt.viewer, msg); got != tt.want {
			t.Errorf("CanModify(%q) = %v, want %v", tt.viewer, got, tt.want)
		}
	}
	if CanModify("", MessageView{}) {
		t.Error("empty viewer must never match")
	}
}
