package behave

import (
	"fmt"
	"os"

	"flowp/pkg/files"
	"flowp/pkg/logging"
)

// InTempDir is a context running the test inside a fresh temporary
// directory, which is removed afterwards along with its content.
func InTempDir[S any]() Context {
	return Around("in a temporary directory", func(*S) func() {
		dir, err := os.MkdirTemp("", "flowp-")
		if err != nil {
			panic(fmt.Errorf("failed to create temporary directory: %w", err))
		}
		restore, err := files.Cd(dir)
		if err != nil {
			os.RemoveAll(dir)
			panic(err)
		}
		return func() {
			if err := restore(); err != nil {
				logging.Warn("Behave", "Failed to leave %s: %v", dir, err)
			}
			if err := os.RemoveAll(dir); err != nil {
				logging.Warn("Behave", "Failed to remove %s: %v", dir, err)
			}
		}
	})
}
