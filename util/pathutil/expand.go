// Package pathutil resolves user-supplied paths from flags and config files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves a leading ~ and $VAR references in path and returns it
// as an absolute path. The empty path stays empty.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	path = os.ExpandEnv(path)

	return filepath.Abs(path)
}
