package filechange

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/vocabulary.yaml
var defaultVocabularyYAML []byte

// vocabularyFile is the YAML layout of a tool vocabulary
type vocabularyFile struct {
	Tools []struct {
		Type string   `yaml:"type"`
		Kind ToolKind `yaml:"kind"`
	} `yaml:"tools"`
	ExcludedPathMarkers []string `yaml:"excluded_path_markers"`
}

// Vocabulary maps message part types to tool kinds. It is read-only after construction.
type Vocabulary struct {
	kinds   map[string]ToolKind
	markers []string
}

// DefaultVocabulary returns the embedded vocabulary
func DefaultVocabulary() (*Vocabulary, error) {
	return ParseVocabulary(defaultVocabularyYAML)
}

// LoadVocabulary reads a vocabulary from a YAML file. An empty path
// returns the embedded default.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tool vocabulary: %w", err)
	}

	vocab, err := ParseVocabulary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vocab, nil
}

// ParseVocabulary parses and validates vocabulary YAML
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal tool vocabulary: %w", err)
	}

	vocab := &Vocabulary{
		kinds:   make(map[string]ToolKind, len(file.Tools)),
		markers: file.ExcludedPathMarkers,
	}

	for i, tool := range file.Tools {
		partType := strings.TrimSpace(tool.Type)
		if partType == "" {
			return nil, fmt.Errorf("tool %d: type is required", i)
		}
		if !tool.Kind.Valid() {
			return nil, fmt.Errorf("tool %s: unknown kind %q", partType, tool.Kind)
		}
		if _, dup := vocab.kinds[partType]; dup {
			return nil, fmt.Errorf("tool %s: declared twice", partType)
		}
		vocab.kinds[partType] = tool.Kind
	}

	return vocab, nil
}

// Kind returns the tool kind for a part type
func (v *Vocabulary) Kind(partType string) (ToolKind, bool) {
	kind, ok := v.kinds[partType]
	return kind, ok
}

// ExcludedPathMarkers returns the default session-artifact markers
func (v *Vocabulary) ExcludedPathMarkers() []string {
	return append([]string(nil), v.markers...)
}
