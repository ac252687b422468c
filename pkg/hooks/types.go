package hooks

// HookType represents the type of hooks.
type HookType string

// Supported hooks types.
const (
	PostExtract HookType = "post-extract"
)

// Hook represents a hooks script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	Hash        string
	ArchiveURL  string
	ExtractPath string
	Depth       int
	Vars        map[string]interface{}
}
