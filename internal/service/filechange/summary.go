package filechange

import (
	"slices"
	"strings"

	models "filetrack/internal/domain/models/filechange"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// summarize groups records by file path in first-seen order
func summarize(projectID string, changes []models.FileChange) *models.WorkspaceSummary {
	summary := &models.WorkspaceSummary{
		ProjectID:    projectID,
		TotalChanges: len(changes),
		Files:        []models.FileSummary{},
	}

	index := make(map[string]int)
	for _, change := range changes {
		i, ok := index[change.FilePath]
		if !ok {
			i = len(summary.Files)
			index[change.FilePath] = i
			summary.Files = append(summary.Files, models.FileSummary{
				FilePath: change.FilePath,
				ChatIDs:  []string{},
			})
		}

		file := &summary.Files[i]
		file.Changes++
		file.LastOperation = change.OperationType
		file.LastChangedAt = change.Timestamp
		if change.ChatID != nil && !slices.Contains(file.ChatIDs, *change.ChatID) {
			file.ChatIDs = append(file.ChatIDs, *change.ChatID)
		}

		added, removed := lineStats(deref(change.OldContent), deref(change.NewContent))
		file.Additions += added
		file.Deletions += removed
	}

	return summary
}

// lineStats counts added and removed lines between two contents
func lineStats(before, after string) (added, removed int) {
	if before == after {
		return 0, 0
	}

	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += lineCount(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += lineCount(d.Text)
		}
	}
	return added, removed
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
