package mcp

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mkuznecov/estima/internal/model"
	"github.com/mkuznecov/estima/internal/store"
)

// ChrootedStore is a store that is restricted to a specific directory
type ChrootedStore struct {
	root *os.Root
}

// NewChrootedStore creates a new store restricted to the given directory
func NewChrootedStore(dir string) (*ChrootedStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}

	return &ChrootedStore{
		root: root,
	}, nil
}

// Close closes the root directory
func (s *ChrootedStore) Close() error {
	return s.root.Close()
}

// writeFile writes data to a file within the chrooted directory
func (s *ChrootedStore) writeFile(path string, data []byte) error {
	f, err := s.root.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// LoadProject loads a project from a file
func (s *ChrootedStore) LoadProject(path string) (*model.Project, error) {
	data, err := fs.ReadFile(s.root.FS(), path)
	if err != nil {
		return nil, err
	}

	project := &model.Project{}
	if err := yaml.Unmarshal(data, project); err != nil {
		return nil, err
	}

	normalizeProject(project)

	return project, nil
}

// LoadOrCreateProject loads a project from a file, or creates a new one if it doesn't exist
func (s *ChrootedStore) LoadOrCreateProject(path string, name string) (*model.Project, bool, error) {
	data, err := fs.ReadFile(s.root.FS(), path)
	if err != nil {
		if os.IsNotExist(err) {
			project := model.NewProject(name)
			if err := s.SaveProject(path, project); err != nil {
				return nil, false, err
			}
			return project, true, nil
		}
		return nil, false, err
	}

	project := &model.Project{}
	if err := yaml.Unmarshal(data, project); err != nil {
		return nil, false, err
	}

	normalizeProject(project)

	return project, false, nil
}

// normalizeProject fills collections a hand-edited file may omit
func normalizeProject(project *model.Project) {
	if project.Items == nil {
		project.Items = []*model.EstimateItem{}
	}
	if project.CostOverrides == nil {
		project.CostOverrides = model.CostOverrides{}
	}
	for _, item := range project.Items {
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.RoleMultiplier == 0 {
			item.RoleMultiplier = 1.0
		}
		if item.QualityLevel == 0 {
			item.QualityLevel = 1.0
		}
	}
}

// SaveProject saves a project to a file
func (s *ChrootedStore) SaveProject(path string, project *model.Project) error {
	data, err := yaml.Marshal(project)
	if err != nil {
		return err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := s.root.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return s.writeFile(path, data)
}

// CreateProject creates a new project file
func (s *ChrootedStore) CreateProject(path string, name string) (*model.Project, error) {
	project := model.NewProject(name)

	if err := s.SaveProject(path, project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListProjects lists all project files in a directory
func (s *ChrootedStore) ListProjects(dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		// the bare config file shares the suffix and is not a project
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), store.ProjectFileSuffix) && entry.Name() != store.DefaultConfigFile {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// DeleteProject deletes a project file
func (s *ChrootedStore) DeleteProject(path string) error {
	return s.root.Remove(path)
}
