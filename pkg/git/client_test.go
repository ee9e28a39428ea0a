package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestClient_Lock(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)
	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	unlock, err := client.Lock(ctx)
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	lockPath := filepath.Join(tmpDir, ".git", LockFile)
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	// A second acquisition must give up when its context expires.
	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := client.Lock(shortCtx); !errors.Is(err, ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout, got %v", err)
	}

	unlock()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_Init(t *testing.T) {
	requireGit(t)
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".git")); os.IsNotExist(err) {
		t.Error(".git directory not created")
	}
}

func TestClient_NotRepository(t *testing.T) {
	requireGit(t)
	client := NewClient(t.TempDir(), "", nil)
	client.Env = []string{"GIT_CEILING_DIRECTORIES=" + filepath.Dir(client.WorkDir)}

	_, err := client.Run(context.Background(), "status")
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("expected ErrNotRepository, got %v", err)
	}
}

func TestClient_TrackAndHead(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)
	client.Env = []string{
		"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com",
	}
	if err := client.Init(ctx); err != nil {
		t.Fatal(err)
	}

	head, err := client.Head(ctx)
	if err != nil || head != "" {
		t.Fatalf("expected empty head in new repo, got %q, %v", head, err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if tracked, _ := client.IsTracked(ctx, "a.txt"); tracked {
		t.Error("untracked file reported as tracked")
	}
	if err := client.Add(ctx, "a.txt"); err != nil {
		t.Fatal(err)
	}
	if tracked, _ := client.IsTracked(ctx, "a.txt"); !tracked {
		t.Error("added file not tracked")
	}
	if err := client.Commit(ctx, "init"); err != nil {
		t.Fatal(err)
	}

	head, err = client.Head(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(head) != 40 {
		t.Errorf("expected full hash, got %q", head)
	}
}

func TestClient_SetExecutable(t *testing.T) {
	client := NewClient(t.TempDir(), "", nil)
	if client.Executable != "git" {
		t.Fatalf("default executable = %q, want git", client.Executable)
	}

	client.SetExecutable(filepath.Join(t.TempDir(), "no-such-git"))
	if client.IsInstalled() {
		t.Fatal("expected missing executable to be reported")
	}
	if _, err := client.Run(context.Background(), "status"); err == nil {
		t.Fatal("expected commands to use the new executable and fail")
	}

	client.SetExecutable("")
	if client.Executable != "git" {
		t.Fatalf("empty executable should reset to git, got %q", client.Executable)
	}
}
