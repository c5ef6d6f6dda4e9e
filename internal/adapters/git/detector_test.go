package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo creates a repository with one commit and returns it with the
// commit hash.
func initRepo(t *testing.T, dir string) (*git.Repository, plumbing.Hash) {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("focus"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := worktree.Add("notes.txt"); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}

	commit, err := worktree.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
		},
	})
	if err != nil {
		t.Fatalf("Failed to create commit: %v", err)
	}
	return repo, commit
}

func TestDetector_Detect(t *testing.T) {
	tmpDir := t.TempDir()
	_, commit := initRepo(t, tmpDir)

	info, err := NewDetector().Detect(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.Commit != commit.String() {
		t.Errorf("Expected commit %s, got %s", commit, info.Commit)
	}
	// go-git defaults to master
	if info.Branch != "master" && info.Branch != "main" {
		t.Errorf("Unexpected branch: %s", info.Branch)
	}
	if info.Repository != "" {
		t.Errorf("Expected no repository without a remote, got %q", info.Repository)
	}
}

func TestDetector_Detect_FromSubdirectory(t *testing.T) {
	tmpDir := t.TempDir()
	repo, _ := initRepo(t, tmpDir)

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:xvierd/focusflow.git"},
	}); err != nil {
		t.Fatalf("Failed to create remote: %v", err)
	}

	subDir := filepath.Join(tmpDir, "level1", "level2")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	info, err := NewDetector().Detect(context.Background(), subDir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Repository != "xvierd/focusflow" {
		t.Errorf("Expected repository xvierd/focusflow, got %q", info.Repository)
	}
}

func TestDetector_Detect_FeatureBranch(t *testing.T) {
	tmpDir := t.TempDir()
	repo, commit := initRepo(t, tmpDir)

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:   commit,
		Branch: plumbing.NewBranchReferenceName("feature/stats"),
		Create: true,
	}); err != nil {
		t.Fatalf("Failed to checkout branch: %v", err)
	}

	info, err := NewDetector().Detect(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Branch != "feature/stats" {
		t.Errorf("Expected branch feature/stats, got %q", info.Branch)
	}
}

func TestDetector_Detect_NoGitRepo(t *testing.T) {
	_, err := NewDetector().Detect(context.Background(), t.TempDir())
	if err == nil {
		t.Error("Expected error when no git repo exists")
	}
}

func TestDetector_Detect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewDetector().Detect(ctx, t.TempDir()); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestExtractRepoName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"git@github.com:user/repo.git", "user/repo"},
		{"https://github.com/user/repo.git", "user/repo"},
		{"https://gitlab.com/org/project.git", "org/project"},
		{"git@bitbucket.org:team/repo.git", "team/repo"},
		{"/path/to/repo", "/path/to/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := extractRepoName(tt.url)
			if result != tt.expected {
				t.Errorf("extractRepoName(%q) = %q, want %q", tt.url, result, tt.expected)
			}
		})
	}
}
