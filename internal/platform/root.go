package platform

import (
	"fmt"
	"path/filepath"

	"github.com/aretw0/gitvcs/pkg/core"
)

// FindRoot looks upwards from startDir for a directory holding a .git directory
// and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if core.IsVersionedDirectory(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: %s", core.ErrNotRepository, startDir)
}
