package filechange

import (
	"log/slog"

	models "filetrack/internal/domain/models/filechange"
)

// IngestStats counts parts dropped while extracting events
type IngestStats struct {
	Malformed int
	Excluded  int
}

// Skipped is the total number of dropped tool parts
func (s IngestStats) Skipped() int { return s.Malformed + s.Excluded }

// Ingestor turns raw messages into typed tool events
type Ingestor struct {
	vocab    *Vocabulary
	excluder *PathExcluder
	logger   *slog.Logger
}

// NewIngestor creates an ingestor for the given vocabulary and exclusion predicate
func NewIngestor(vocab *Vocabulary, excluder *PathExcluder, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		vocab:    vocab,
		excluder: excluder,
		logger:   logger,
	}
}

// Extract returns the tool events of all assistant messages in message order.
// Parts with unknown types are ignored; parts without a path or under an
// excluded directory are dropped and counted.
func (in *Ingestor) Extract(messages []models.Message) ([]ToolEvent, IngestStats) {
	var (
		events []ToolEvent
		stats  IngestStats
	)

	for _, msg := range messages {
		if msg.Role != models.RoleAssistant {
			continue
		}
		for _, part := range msg.Parts {
			kind, ok := in.vocab.Kind(part.Type)
			if !ok {
				continue
			}

			event, err := newEvent(kind, part.Input)
			if err != nil {
				stats.Malformed++
				in.logger.Debug("skipping tool part",
					"part_type", part.Type,
					"error", err,
				)
				continue
			}

			if in.isExcluded(event) {
				stats.Excluded++
				in.logger.Debug("skipping session artifact",
					"part_type", part.Type,
					"path", event.Path(),
				)
				continue
			}

			events = append(events, event)
		}
	}

	return events, stats
}

// isExcluded checks every path an event touches
func (in *Ingestor) isExcluded(event ToolEvent) bool {
	if rename, ok := event.(RenameEvent); ok {
		return in.excluder.Excluded(rename.OldPath) || in.excluder.Excluded(rename.NewPath)
	}
	return in.excluder.Excluded(event.Path())
}

// newEvent builds the typed event for a part input
func newEvent(kind ToolKind, input *models.PartInput) (ToolEvent, error) {
	// multi-file patches usually carry no single path; the reconciler skips them either way
	if kind == KindPatch {
		return PatchEvent{FilePath: inputPath(input)}, nil
	}

	path := inputPath(input)
	if path == "" {
		return nil, ErrMalformedEvent
	}

	switch kind {
	case KindWrite:
		return WriteEvent{FilePath: path, Content: input.Content}, nil
	case KindEdit:
		return EditEvent{FilePath: path, OldString: input.OldString, NewString: input.NewString}, nil
	case KindRename:
		if input.MovePath == "" {
			return nil, ErrMalformedEvent
		}
		return RenameEvent{OldPath: path, NewPath: input.MovePath}, nil
	case KindDelete:
		return DeleteEvent{FilePath: path}, nil
	default:
		return nil, ErrUnsupportedToolKind
	}
}

// inputPath prefers filePath and falls back to path
func inputPath(input *models.PartInput) string {
	if input == nil {
		return ""
	}
	if input.FilePath != "" {
		return input.FilePath
	}
	return input.Path
}
