package messages

import "testing"

func TestConcatenateMessagesList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{name: "empty", items: nil, want: ""},
		{name: "single", items: []string{"apple"}, want: "apple"},
		{name: "pair", items: []string{"apple", "orange"}, want: "apple and orange"},
		{name: "three", items: []string{"apple", "orange", "banana"}, want: "apple, orange and banana"},
	}

	for _, tt := range tests {
		if got := ConcatenateMessagesList(tt.items); got != tt.want {
			t.Fatalf("%s: ConcatenateMessagesList = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestConcatenateOptionsList(t *testing.T) {
	got := ConcatenateOptionsList([]string{"Check line", "Remove"})
	want := "Your options are Check line and Remove."
	if got != want {
		t.Fatalf("ConcatenateOptionsList = %q, want %q", got, want)
	}

	if got := ConcatenateOptionsList(nil); got != "" {
		t.Fatalf("ConcatenateOptionsList(nil) = %q, want empty", got)
	}
}

func TestPeopleInLineSingular(t *testing.T) {
	if got := PeopleInLine(1); got != "There is 1 person in line." {
		t.Fatalf("PeopleInLine(1) = %q", got)
	}
	if got := PeopleInLine(3); got != "There are 3 people in line." {
		t.Fatalf("PeopleInLine(3) = %q", got)
	}
}

func TestVariantPickerIsSwappable(t *testing.T) {
	restore := SetPicker(func(n int) int { return 0 })
	defer restore()

	first := FamiliarWelcome()
	for i := 0; i < 5; i++ {
		if got := FamiliarWelcome(); got != first {
			t.Fatalf("picker pinned to 0 but message varied: %q vs %q", got, first)
		}
	}
}
