package filechange

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultVocabulary(t *testing.T) {
	vocab, err := DefaultVocabulary()
	if err != nil {
		t.Fatalf("DefaultVocabulary() error = %v", err)
	}

	tests := []struct {
		partType string
		want     ToolKind
		wantOK   bool
	}{
		{"tool-Write", KindWrite, true},
		{"tool-Edit", KindEdit, true},
		{"tool-apply_patch", KindPatch, true},
		{"tool-Patch", KindPatch, true},
		{"tool-Rename", KindRename, true},
		{"tool-Delete", KindDelete, true},
		{"tool-Bash", "", false},
		{"text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.partType, func(t *testing.T) {
			got, ok := vocab.Kind(tt.partType)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Kind(%q) = %q, %v; want %q, %v", tt.partType, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if len(vocab.ExcludedPathMarkers()) == 0 {
		t.Error("default vocabulary has no excluded path markers")
	}
}

func TestParseVocabularyErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing type",
			yaml:    "tools:\n  - kind: write\n",
			wantErr: "type is required",
		},
		{
			name:    "unknown kind",
			yaml:    "tools:\n  - type: tool-Move\n    kind: move\n",
			wantErr: "unknown kind",
		},
		{
			name:    "duplicate type",
			yaml:    "tools:\n  - type: tool-Write\n    kind: write\n  - type: tool-Write\n    kind: edit\n",
			wantErr: "declared twice",
		},
		{
			name:    "invalid yaml",
			yaml:    "tools: [",
			wantErr: "unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVocabulary([]byte(tt.yaml))
			if err == nil {
				t.Fatal("ParseVocabulary() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadVocabularyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	data := "tools:\n  - type: tool-Create\n    kind: write\nexcluded_path_markers:\n  - .agent/scratch/\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary() error = %v", err)
	}
	if kind, ok := vocab.Kind("tool-Create"); !ok || kind != KindWrite {
		t.Errorf("Kind(tool-Create) = %q, %v", kind, ok)
	}
	if _, ok := vocab.Kind("tool-Write"); ok {
		t.Error("file vocabulary should replace the default")
	}
	if markers := vocab.ExcludedPathMarkers(); len(markers) != 1 || markers[0] != ".agent/scratch/" {
		t.Errorf("ExcludedPathMarkers() = %v", markers)
	}
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadVocabulary() expected error for missing file")
	}
}
