package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	pkgerrors "github.com/porelab/porenet/pkg/errors"
	"github.com/porelab/porenet/pkg/project"
)

// FileStore is a file-based project store for CLI usage.
// Each project is one JSON document named after its ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based project store.
// If baseDir is empty, defaults to ~/.config/porenet/projects/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "porenet", "projects")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to create project dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory for project files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) projectPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(encodeProject(p), "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to marshal project")
	}
	if err := os.WriteFile(s.projectPath(p.ID()), data, 0600); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to write project file")
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.projectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.New(pkgerrors.ErrCodeProjectNotFound,
				"project %s not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to read project file")
	}

	var doc projectDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err,
			"project %s does not parse", id)
	}
	return decodeProject(&doc)
}

// List returns summaries of all stored projects sorted by name. Files that
// do not parse are skipped rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to read project dir")
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var doc projectDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		infos = append(infos, Info{
			ID:         doc.ID,
			Name:       doc.Name,
			CreatedAt:  doc.CreatedAt,
			ModifiedAt: doc.ModifiedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.projectPath(id))
	if os.IsNotExist(err) {
		return pkgerrors.New(pkgerrors.ErrCodeProjectNotFound,
			"project %s not found", id)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "failed to remove project file")
	}
	return nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
