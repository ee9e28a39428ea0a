package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/gitvcs/pkg/core"
	"github.com/aretw0/gitvcs/pkg/git"
)

// Init creates path if needed and runs `git init` there unless it already is a repository root.
// It returns the absolute repository root.
func Init(path string, opts ...Option) (string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if core.IsVersionedDirectory(abs) {
		return abs, nil
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	executable := ""
	if o.settings != nil {
		executable = o.settings.GitExecutable
	}
	client := git.NewClient(abs, executable, o.logger)
	client.Env = o.env
	if !client.IsInstalled() {
		return "", fmt.Errorf("git executable %q not found", client.Executable)
	}
	if err := client.Init(context.Background()); err != nil {
		return "", err
	}
	return abs, nil
}
