package filechange

// Role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one saved chat message as produced by the agent runtime.
// Only assistant messages carry actionable tool parts.
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is a single message part. Tool parts carry their arguments in Input.
type Part struct {
	Type  string     `json:"type"`
	Input *PartInput `json:"input,omitempty"`
}

// PartInput holds the tool arguments the tracker understands.
// The path may arrive as either FilePath or Path depending on the tool.
type PartInput struct {
	FilePath  string `json:"filePath,omitempty"`
	Path      string `json:"path,omitempty"`
	OldString string `json:"oldString,omitempty"`
	NewString string `json:"newString,omitempty"`
	Content   string `json:"content,omitempty"`
	MovePath  string `json:"movePath,omitempty"`
}
