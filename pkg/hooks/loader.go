package hooks

import (
	"os"
	"path/filepath"

	"github.com/glorpus-work/narget/pkg/errors"
)

// HookFileExtensions lists the supported hooks file extensions.
var HookFileExtensions = map[string]bool{
	".tengo": true,
}

// LoadHookFile registers the script at path as a hooks of the given type.
func LoadHookFile(manager HookManager, hookType HookType, path string) error {
	if hookType != PostExtract {
		return ErrUnsupportedHookType(string(hookType))
	}

	if ext := filepath.Ext(path); !HookFileExtensions[ext] {
		return errors.Wrapf(ErrHookLoad, "unsupported hooks file extension %q", ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(ErrHookLoad, "error reading hooks file %s: %v", path, err)
	}

	if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
		return errors.Wrapf(err, "error adding hooks %s", hookType)
	}
	return nil
}

// HookTemplate generates a template for a hooks script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PostExtract:
		return `// Post-extract hooks
// This script runs after a store path has been unpacked
// Available variables:
// - storeHash: string - 32 character hash of the store path
// - archiveURL: string - URL the NAR archive was downloaded from
// - extractPath: string - directory the archive was extracted into
// - depth: int - 0 for the requested path, >0 for paths reached through symlinks
//
// Assign a non-empty string to err to fail the fetch.

err := ""

// Example: refuse to continue when the archive produced no bin directory
/*
os := import("os")
if is_error(os.stat(extractPath + "/bin")) {
    err = "no bin directory in " + storeHash
}
*/
`

	default:
		return "// Unknown hooks type: " + string(hookType)
	}
}
