package compose

import (
	"encoding/json"
	"testing"
)

func TestAddVoiceMessageAtClampsIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{name: "front", index: 0, want: []string{"new", "a", "b"}},
		{name: "middle", index: 1, want: []string{"a", "new", "b"}},
		{name: "append", index: 2, want: []string{"a", "b", "new"}},
		{name: "negative clamps to front", index: -3, want: []string{"new", "a", "b"}},
		{name: "past end clamps to append", index: 99, want: []string{"a", "b", "new"}},
	}

	for _, tt := range tests {
		b := NewBuilder("Here are your options:", nil)
		b.AddVoiceMessage("a").AddVoiceMessage("b")
		b.AddVoiceMessageAt("new", tt.index)

		if len(b.voiceMessages) != len(tt.want) {
			t.Fatalf("%s: voice messages = %v, want %v", tt.name, b.voiceMessages, tt.want)
		}
		for i, want := range tt.want {
			if b.voiceMessages[i] != want {
				t.Fatalf("%s: voice messages = %v, want %v", tt.name, b.voiceMessages, tt.want)
			}
		}
	}
}

func TestBuilderChaining(t *testing.T) {
	b := NewBuilder("Here are your options:", nil)
	result := b.AddMessages("one").
		AddOptions(Option{Title: "opt"}).
		AddOptionsTitle("title").
		AddSuggestions(Suggestion{Title: "chip"}).
		AddVoiceMessage("aside")

	if result != b {
		t.Fatal("chained calls must return the same builder")
	}
	if len(b.Options()) != 1 {
		t.Fatalf("options = %d, want 1", len(b.Options()))
	}
}

func TestOptionsTitleLastWriteWins(t *testing.T) {
	b := NewBuilder("Here are your options:", nil)
	b.AddOptionsTitle("first").AddOptionsTitle("second")
	if b.optionsTitle != "second" {
		t.Fatalf("options title = %q, want %q", b.optionsTitle, "second")
	}
}

func TestSnapshotRoundTrips(t *testing.T) {
	b := NewBuilder("Here are your options:", nil)
	b.AddMessages("hello").
		AddOptions(Option{Title: "opt", ActionKey: "k"}).
		AddSuggestions(Suggestion{Title: "chip"}).
		AddVoiceMessage("aside")

	raw, err := json.Marshal(b.Snapshot())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	if len(snapshot.SimpleResponses) != 1 || snapshot.SimpleResponses[0].DisplayText != "hello" {
		t.Fatalf("snapshot responses = %+v", snapshot.SimpleResponses)
	}
	if len(snapshot.Options) != 1 || snapshot.Options[0].ActionKey != "k" {
		t.Fatalf("snapshot options = %+v", snapshot.Options)
	}
	if len(snapshot.VoiceMessages) != 1 {
		t.Fatalf("snapshot voice messages = %+v", snapshot.VoiceMessages)
	}
}
