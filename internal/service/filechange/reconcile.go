package filechange

import (
	"log/slog"

	models "filetrack/internal/domain/models/filechange"
)

// fileState is the batch-local view of one path.
// originalContent is nil until a pre-image is observed. For a created path it
// only serves elision and never reaches the record.
type fileState struct {
	originalContent *string
	currentContent  *string
	operationType   models.OperationType
	oldFilePath     *string
	source          string
}

// stateSet holds the states of one reconciliation call, in first-touch order
type stateSet struct {
	states map[string]*fileState
	order  []string
}

func newStateSet() *stateSet {
	return &stateSet{states: make(map[string]*fileState)}
}

func (s *stateSet) get(path string) (*fileState, bool) {
	st, ok := s.states[path]
	return st, ok
}

func (s *stateSet) put(path string, st *fileState) {
	if _, ok := s.states[path]; !ok {
		s.order = append(s.order, path)
	}
	s.states[path] = st
}

// rekey moves the state at from to to, keeping from's position.
// A state already tracked at to is overwritten.
func (s *stateSet) rekey(from, to string) {
	st := s.states[from]
	if _, taken := s.states[to]; taken {
		s.remove(to)
	}
	delete(s.states, from)
	s.states[to] = st
	for i, p := range s.order {
		if p == from {
			s.order[i] = to
			break
		}
	}
}

func (s *stateSet) remove(path string) {
	delete(s.states, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reconciler folds an ordered event list into per-file states.
// It holds no state between calls.
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler creates a reconciler
func NewReconciler(logger *slog.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile applies events in order to a fresh state set.
// Returns the states and the number of events that were recognized but not applied.
func (r *Reconciler) Reconcile(events []ToolEvent) (*stateSet, int) {
	set := newStateSet()
	unsupported := 0

	for _, event := range events {
		switch e := event.(type) {
		case WriteEvent:
			applyWrite(set, e)
		case EditEvent:
			applyEdit(set, e)
		case RenameEvent:
			applyRename(set, e)
		case DeleteEvent:
			applyDelete(set, e)
		case PatchEvent:
			// multi-file patches are not decomposed into per-file states
			unsupported++
			r.logger.Info("skipping patch event",
				"path", e.FilePath,
				"error", ErrUnsupportedToolKind,
			)
		default:
			unsupported++
			r.logger.Warn("skipping unknown tool event", "kind", event.Kind())
		}
	}

	return set, unsupported
}

func applyWrite(set *stateSet, e WriteEvent) {
	content := e.Content
	st, seen := set.get(e.FilePath)
	if !seen {
		set.put(e.FilePath, &fileState{
			currentContent: &content,
			operationType:  models.OperationCreate,
			source:         models.SourceToolWrite,
		})
		return
	}

	st.currentContent = &content
	switch st.operationType {
	case models.OperationCreate, models.OperationRename:
		// created or moved in this batch; still the same net operation
	default:
		st.operationType = models.OperationUpdate
	}
	st.source = models.SourceToolWrite
}

func applyEdit(set *stateSet, e EditEvent) {
	newString := e.NewString
	st, seen := set.get(e.FilePath)
	if !seen {
		oldString := e.OldString
		set.put(e.FilePath, &fileState{
			originalContent: &oldString,
			currentContent:  &newString,
			operationType:   models.OperationUpdate,
			source:          models.SourceToolEdit,
		})
		return
	}

	st.currentContent = &newString
	// Backfill the pre-image from the first edit that reveals it. Create
	// records drop it again, but it still decides whether the batch had an effect.
	if st.originalContent == nil && e.OldString != "" {
		oldString := e.OldString
		st.originalContent = &oldString
	}
	st.source = models.SourceToolEdit
}

func applyRename(set *stateSet, e RenameEvent) {
	if e.OldPath == e.NewPath {
		return
	}

	st, seen := set.get(e.OldPath)
	if !seen {
		oldPath := e.OldPath
		set.put(e.OldPath, &fileState{
			operationType: models.OperationRename,
			oldFilePath:   &oldPath,
			source:        models.SourceToolRename,
		})
		set.rekey(e.OldPath, e.NewPath)
		return
	}

	switch {
	case st.operationType == models.OperationCreate:
		// a file created in this batch is simply created at its final path
	case st.oldFilePath != nil && *st.oldFilePath == e.NewPath:
		// moved back to where it started
		st.oldFilePath = nil
		st.operationType = models.OperationUpdate
	default:
		if st.oldFilePath == nil {
			oldPath := e.OldPath
			st.oldFilePath = &oldPath
		}
		st.operationType = models.OperationRename
	}
	st.source = models.SourceToolRename
	set.rekey(e.OldPath, e.NewPath)
}

func applyDelete(set *stateSet, e DeleteEvent) {
	st, seen := set.get(e.FilePath)
	if !seen {
		set.put(e.FilePath, &fileState{
			operationType: models.OperationDelete,
			source:        models.SourceToolDelete,
		})
		return
	}

	st.currentContent = nil
	st.operationType = models.OperationDelete
	st.source = models.SourceToolDelete

	if st.oldFilePath == nil {
		return
	}

	// Deleting a moved file deletes it at its pre-batch path
	origin := *st.oldFilePath
	st.oldFilePath = nil
	existing, taken := set.get(origin)
	if !taken {
		set.rekey(e.FilePath, origin)
		return
	}

	// The origin was re-populated after the move. It keeps its final state,
	// measured against the content it had before the batch.
	set.remove(e.FilePath)
	if existing.operationType == models.OperationCreate {
		existing.operationType = models.OperationUpdate
		existing.originalContent = st.originalContent
	} else if existing.originalContent == nil && existing.oldFilePath == nil {
		existing.originalContent = st.originalContent
	}
}
