package filechange

// ToolKind identifies which reconciliation rule applies to an event
type ToolKind string

// Tool kind constants
const (
	KindWrite  ToolKind = "write"
	KindEdit   ToolKind = "edit"
	KindPatch  ToolKind = "patch"
	KindRename ToolKind = "rename"
	KindDelete ToolKind = "delete"
)

// Valid reports whether k is a known tool kind
func (k ToolKind) Valid() bool {
	switch k {
	case KindWrite, KindEdit, KindPatch, KindRename, KindDelete:
		return true
	}
	return false
}

// ToolEvent is a typed file mutation extracted from a message part.
// The set of implementations is closed: WriteEvent, EditEvent, PatchEvent,
// RenameEvent and DeleteEvent.
type ToolEvent interface {
	Kind() ToolKind
	// Path is the path the event is keyed under (the new path for renames)
	Path() string
	isToolEvent()
}

// WriteEvent replaces the whole content of a file
type WriteEvent struct {
	FilePath string
	Content  string
}

// EditEvent replaces OldString with NewString inside a file
type EditEvent struct {
	FilePath  string
	OldString string
	NewString string
}

// PatchEvent is a (possibly multi-file) patch. It is recognized but not decomposed.
type PatchEvent struct {
	FilePath string
}

// RenameEvent moves a file from OldPath to NewPath
type RenameEvent struct {
	OldPath string
	NewPath string
}

// DeleteEvent removes a file
type DeleteEvent struct {
	FilePath string
}

func (WriteEvent) Kind() ToolKind  { return KindWrite }
func (EditEvent) Kind() ToolKind   { return KindEdit }
func (PatchEvent) Kind() ToolKind  { return KindPatch }
func (RenameEvent) Kind() ToolKind { return KindRename }
func (DeleteEvent) Kind() ToolKind { return KindDelete }

func (e WriteEvent) Path() string  { return e.FilePath }
func (e EditEvent) Path() string   { return e.FilePath }
func (e PatchEvent) Path() string  { return e.FilePath }
func (e RenameEvent) Path() string { return e.NewPath }
func (e DeleteEvent) Path() string { return e.FilePath }

func (WriteEvent) isToolEvent()  {}
func (EditEvent) isToolEvent()   {}
func (PatchEvent) isToolEvent()  {}
func (RenameEvent) isToolEvent() {}
func (DeleteEvent) isToolEvent() {}
