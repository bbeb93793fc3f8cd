package filechange

import (
	"io"
	"log/slog"
	"testing"

	models "filetrack/internal/domain/models/filechange"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func assistant(parts ...models.Part) models.Message {
	return models.Message{Role: models.RoleAssistant, Parts: parts}
}

func writePart(path, content string) models.Part {
	return models.Part{Type: "tool-Write", Input: &models.PartInput{FilePath: path, Content: content}}
}

func editPart(path, oldString, newString string) models.Part {
	return models.Part{Type: "tool-Edit", Input: &models.PartInput{FilePath: path, OldString: oldString, NewString: newString}}
}

func newTestIngestor(t *testing.T) *Ingestor {
	t.Helper()
	vocab, err := DefaultVocabulary()
	if err != nil {
		t.Fatalf("DefaultVocabulary() error = %v", err)
	}
	return NewIngestor(vocab, NewPathExcluder(vocab.ExcludedPathMarkers()), discardLogger())
}

// reconcileRecords runs events through the reconciler and net-change filter
func reconcileRecords(events ...ToolEvent) []models.FileChange {
	set, _ := NewReconciler(discardLogger()).Reconcile(events)
	records, _ := netChanges(set)
	return records
}

func optional(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
