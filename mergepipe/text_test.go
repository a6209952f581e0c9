package mergepipe

import (
	"context"
	"strings"
	"testing"
)

// runeWidth measures one width unit per rune, making wrap behavior easy
// to reason about in tests.
func runeWidth(s string) float64 { return float64(len([]rune(s))) }

func TestWrapTextRespectsWidth(t *testing.T) {
	texts := []string{
		"the quick brown fox jumps over the lazy dog",
		"short",
		"a\nb\nc",
		strings.Repeat("word ", 200),
		"supercalifragilisticexpialidocious antidisestablishmentarianism",
		"trailing newline\n",
	}
	const usable = 20.0

	for _, text := range texts {
		for _, line := range wrapText(text, usable, runeWidth) {
			if runeWidth(line) > usable {
				t.Errorf("line %q measures %.0f, exceeds usable %v", line, runeWidth(line), usable)
			}
		}
	}
}

func TestWrapTextGreedy(t *testing.T) {
	lines := wrapText("aa bb cc dd", 5, runeWidth)
	want := []string{"aa bb", "cc dd"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapTextBreaksLongWords(t *testing.T) {
	lines := wrapText("abcdefghij", 4, runeWidth)
	if len(lines) != 3 {
		t.Fatalf("got %q, want 3 pieces", lines)
	}
	for _, line := range lines {
		if runeWidth(line) > 4 {
			t.Errorf("piece %q exceeds width", line)
		}
	}
}

func TestWrapTextKeepsBlankLines(t *testing.T) {
	lines := wrapText("one\n\ntwo", 80, runeWidth)
	if len(lines) != 3 || lines[1] != "" {
		t.Fatalf("got %q, want blank middle line", lines)
	}
}

func TestPaginate(t *testing.T) {
	mkLines := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "x"
		}
		return out
	}

	tests := []struct {
		lines        int
		perPage      int
		captionSlots int
		wantPages    int
	}{
		{0, 43, 2, 1},  // never zero pages
		{1, 43, 2, 1},
		{41, 43, 2, 1}, // exactly fills page one
		{42, 43, 2, 2}, // caption slots push one line over
		{41 + 43, 43, 2, 2},
		{41 + 43 + 1, 43, 2, 3},
	}

	for _, tt := range tests {
		pages := paginate(mkLines(tt.lines), tt.perPage, tt.captionSlots)
		if len(pages) != tt.wantPages {
			t.Errorf("paginate(%d lines, %d/page, %d slots) = %d pages, want %d",
				tt.lines, tt.perPage, tt.captionSlots, len(pages), tt.wantPages)
		}
	}
}

func TestLayoutGeometry(t *testing.T) {
	if got := plainTextLayout.linesPerPage(); got != 43 {
		t.Errorf("plain text lines per page = %d, want 43", got)
	}
	if got := richTextLayout.linesPerPage(); got != 38 {
		t.Errorf("rich text lines per page = %d, want 38", got)
	}
	if got := plainTextLayout.usableWidth(); got != 512 {
		t.Errorf("usable width = %v, want 512", got)
	}
}

func TestTextSourceEmptyInput(t *testing.T) {
	item := InputItem{Name: "empty.txt", Data: nil, Selected: true}
	seg, err := plainTextSource{}.build(context.Background(), item, ProfileFor(ModeStandard))
	if err != nil {
		t.Fatal(err)
	}
	if seg.pages != 1 {
		t.Fatalf("empty input produced %d pages, want exactly 1", seg.pages)
	}
}

func TestTextSourcePaginates(t *testing.T) {
	// 100 short logical lines: page one holds 41 (two caption slots),
	// page two the remaining 43 and page three the rest.
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("line\n")
	}
	item := InputItem{Name: "long.txt", Data: []byte(sb.String()), Selected: true}

	seg, err := plainTextSource{}.build(context.Background(), item, ProfileFor(ModeStandard))
	if err != nil {
		t.Fatal(err)
	}
	if seg.pages != 3 {
		t.Fatalf("got %d pages, want 3", seg.pages)
	}
	if n, err := pageCount(seg.data); err != nil || n != seg.pages {
		t.Fatalf("rendered page count = %d (err %v), want %d", n, err, seg.pages)
	}
}

func TestTruncateToWidth(t *testing.T) {
	if got := truncateToWidth("short", 20, runeWidth); got != "short" {
		t.Errorf("no truncation expected, got %q", got)
	}
	got := truncateToWidth("a-very-long-file-name-that-cannot-fit.txt", 20, runeWidth)
	if runeWidth(got) > 20 {
		t.Errorf("truncated %q still exceeds width", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	// Minimum readable prefix survives even under a hostile width.
	got = truncateToWidth("abcdefghijklmnop", 2, runeWidth)
	if len(got) < 8 {
		t.Errorf("minimum prefix not preserved: %q", got)
	}
}
