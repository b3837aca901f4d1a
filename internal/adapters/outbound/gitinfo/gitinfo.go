// Package gitinfo reads the commit a scan ran against.
package gitinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNoCommits is returned for a repository whose HEAD points at no commit.
var ErrNoCommits = errors.New("repository has no commits")

// Repo implements domain.GitInfo using go-git. HEAD is resolved once per
// project path; reports written by one run share the same commit.
type Repo struct {
	mu     sync.Mutex
	hashes map[string]string
}

func New() *Repo {
	return &Repo{hashes: make(map[string]string)}
}

// CommitHash returns the HEAD commit of the repository containing
// projectPath. Parent directories are searched for .git.
func (r *Repo) CommitHash(projectPath string) (string, error) {
	key, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", projectPath, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if hash, ok := r.hashes[key]; ok {
		return hash, nil
	}

	repo, err := git.PlainOpenWithOptions(key, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", ErrNoCommits
	}
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	hash := head.Hash().String()
	r.hashes[key] = hash
	return hash, nil
}
