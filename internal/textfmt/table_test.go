package textfmt

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"ID", "Author", "Words"}
	rows := [][]string{
		{"a1", "Twain", "12"},
		{"b22", "Saint-Exupéry", "3"},
	}
	rightAlign := map[int]bool{2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ID  Author        Words" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a1  Twain            12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "b22 Saint-Exupéry     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := FormatTable([]string{"Quote", "By"}, [][]string{{"long quote text", ""}}, nil)
	if lines[1] != "long quote text" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := FormatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("a rather long quote", 8); got != "a rathe…" {
		t.Fatalf("unexpected %q", got)
	}
}
