package filechange

import (
	models "filetrack/internal/domain/models/filechange"
)

// netChanges converts finalized states into records, eliding states with no
// net effect. Records carry path, operation, content and source only; the
// caller fills identity, ownership and timestamps.
func netChanges(set *stateSet) ([]models.FileChange, int) {
	records := make([]models.FileChange, 0, len(set.order))
	elided := 0

	for _, path := range set.order {
		st := set.states[path]
		if !hasNetEffect(st) {
			elided++
			continue
		}

		record := models.FileChange{
			OperationType: st.operationType,
			FilePath:      path,
			OldContent:    st.originalContent,
			NewContent:    st.currentContent,
			Source:        st.source,
		}

		switch st.operationType {
		case models.OperationCreate:
			record.OldContent = nil
			if record.NewContent == nil {
				empty := ""
				record.NewContent = &empty
			}
		case models.OperationDelete:
			record.NewContent = nil
		case models.OperationRename:
			record.OldFilePath = st.oldFilePath
		}

		records = append(records, record)
	}

	return records, elided
}

// hasNetEffect reports whether the batch changed the file. Deletes always
// count; renames count because the path itself moved.
func hasNetEffect(st *fileState) bool {
	switch st.operationType {
	case models.OperationDelete, models.OperationRename:
		return true
	}
	return deref(st.originalContent) != deref(st.currentContent)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
