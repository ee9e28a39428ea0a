package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Errors returned by the client.
var (
	ErrNotRepository = errors.New("not a git repository")
	ErrLockTimeout   = errors.New("timed out waiting for repository lock")
)

// LockFile is the name of the client lock, created inside the .git directory.
const LockFile = "gitvcs.lock"

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir    string
	Executable string
	Logger     *slog.Logger
	Env        []string
	lockPath   string
	mu         sync.RWMutex
}

// NewClient creates a new git client for the given working directory.
// An empty executable means "git" from PATH.
func NewClient(workDir, executable string, logger *slog.Logger) *Client {
	if executable == "" {
		executable = "git"
	}
	return &Client{
		WorkDir:    workDir,
		Executable: executable,
		Logger:     logger,
		lockPath:   filepath.Join(".git", LockFile),
	}
}

// SetExecutable switches the git binary used by later commands. Empty means "git".
func (c *Client) SetExecutable(executable string) {
	if executable == "" {
		executable = "git"
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Executable = executable
}

func (c *Client) executable() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Executable
}

// IsInstalled reports whether the executable can be found.
func (c *Client) IsInstalled() bool {
	_, err := exec.LookPath(c.executable())
	return err == nil
}

// Lock acquires the file-based lock, polling until it is free or ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Output executes a git command and returns its raw stdout.
// NOTE: It does NOT acquire the lock. Callers mutating the index must hold Client.Lock().
func (c *Client) Output(ctx context.Context, args ...string) ([]byte, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, c.executable(), args...)
	cmd.Dir = c.WorkDir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "not a git repository") {
			err = fmt.Errorf("%w: %v", ErrNotRepository, err)
		}
		return stdout.Bytes(), fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, msg)
	}

	return stdout.Bytes(), nil
}

// Run executes a git command and returns its trimmed stdout.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	out, err := c.Output(ctx, args...)
	return strings.TrimSpace(string(out)), err
}

// Init initializes a new git repository. Re-running it is safe.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Rm removes files from the index. Files already gone from the working tree are fine.
func (c *Client) Rm(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"rm", "--cached", "--quiet", "--ignore-unmatch", "--"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Commit records staged changes. With files, only those paths are committed.
func (c *Client) Commit(ctx context.Context, msg string, files ...string) error {
	args := []string{"commit", "-m", msg}
	if len(files) > 0 {
		args = append(args, "--")
		args = append(args, files...)
	}
	_, err := c.Run(ctx, args...)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status(ctx context.Context) (string, error) {
	out, err := c.Output(ctx, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	return string(out), err
}

// IsTracked reports whether path is present in the index.
func (c *Client) IsTracked(ctx context.Context, path string) (bool, error) {
	out, err := c.Run(ctx, "ls-files", "--", path)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// IsIgnored reports whether path matches a gitignore rule.
func (c *Client) IsIgnored(ctx context.Context, path string) bool {
	_, err := c.Run(ctx, "check-ignore", "-q", "--", path)
	return err == nil
}

// Head returns the full hash of HEAD, or "" in an empty repository.
func (c *Client) Head(ctx context.Context) (string, error) {
	out, err := c.Run(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	if err != nil {
		if errors.Is(err, ErrNotRepository) {
			return "", err
		}
		return "", nil
	}
	return out, nil
}
