package filechange

import (
	"testing"
)

func TestPathExcluder(t *testing.T) {
	excluder := NewPathExcluder([]string{".claude/plans/", "  /.codex/sessions ", "", "   "})

	tests := []struct {
		path string
		want bool
	}{
		{".claude/plans/p.md", true},
		{"/repo/.claude/plans/p.md", true},
		{`C:\repo\.codex\sessions\s.json`, true},
		{"repo/.codex/sessions/deep/s.json", true},
		{"repo/.claude/plans.md", false},
		{"repo/my.claude/plans/p.md", false},
		{"src/main.go", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := excluder.Excluded(tt.path); got != tt.want {
				t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPathExcluderMarkers(t *testing.T) {
	got := NewPathExcluder([]string{".claude/plans/", " ", `.codex\sessions`}).Markers()
	want := []string{"/.claude/plans/", "/.codex/sessions/"}

	if len(got) != len(want) {
		t.Fatalf("Markers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Markers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathExcluderEmptyExcludesNothing(t *testing.T) {
	if NewPathExcluder(nil).Excluded(".claude/plans/p.md") {
		t.Error("empty excluder excluded a path")
	}
}
