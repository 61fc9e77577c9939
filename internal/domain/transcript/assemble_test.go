package transcript

import (
	"testing"

	"github.com/forPelevin/scribe/internal/types"
)

func TestAssemble_OrderIndependent(t *testing.T) {
	t.Parallel()

	inOrder := []types.Fragment{
		{Index: 0, Text: "first part."},
		{Index: 1, Text: "second part."},
		{Index: 2, Text: "third part."},
	}
	shuffled := []types.Fragment{inOrder[2], inOrder[0], inOrder[1]}

	a, err := Assemble(inOrder)
	if err != nil {
		t.Fatalf("assemble in order: %v", err)
	}
	b, err := Assemble(shuffled)
	if err != nil {
		t.Fatalf("assemble shuffled: %v", err)
	}
	if a.Text != b.Text {
		t.Fatalf("assembly depends on processing order:\n%q\nvs\n%q", a.Text, b.Text)
	}
	if a.Text != "first part.\nsecond part.\nthird part." {
		t.Fatalf("unexpected transcript text: %q", a.Text)
	}
}

func TestAssemble_TrimsFragmentWhitespace(t *testing.T) {
	t.Parallel()

	got, err := Assemble([]types.Fragment{
		{Index: 0, Text: "  hello\n"},
		{Index: 1, Text: "\tworld "},
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got.Text != "hello\nworld" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestAssemble_RejectsGaps(t *testing.T) {
	t.Parallel()

	_, err := Assemble([]types.Fragment{
		{Index: 0, Text: "a"},
		{Index: 2, Text: "c"},
	})
	if err == nil {
		t.Fatalf("expected error for missing fragment index 1")
	}
}

func TestAssemble_RejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Assemble(nil); err == nil {
		t.Fatalf("expected error for empty fragment set")
	}
}
