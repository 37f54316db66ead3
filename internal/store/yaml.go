package store

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mkuznecov/estima/internal/model"
)

// YAMLStore handles reading and writing project and config files
type YAMLStore struct {
	configFile string
}

// NewYAMLStore creates a new YAML store with the given config file path
func NewYAMLStore(configFile string) *YAMLStore {
	return &YAMLStore{
		configFile: configFile,
	}
}

// DefaultConfigFile is the default config file name
const DefaultConfigFile = ".estima.yml"

// ProjectFileSuffix marks project files
const ProjectFileSuffix = ".estima.yml"

// LoadConfig loads the configuration from the config file.
// If no specific config file is set, it searches for the config file
// starting from the current directory and traversing up to parent directories.
func (s *YAMLStore) LoadConfig() (*model.Config, error) {
	if s.configFile != "" {
		return s.loadConfigFromFile(s.configFile)
	}

	configPath, err := findConfigFile(DefaultConfigFile)
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		return model.DefaultConfig(), nil
	}

	return s.loadConfigFromFile(configPath)
}

// findConfigFile searches for the config file starting from the current directory
// and traversing up to parent directories until it finds the file or reaches the root
func findConfigFile(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (s *YAMLStore) loadConfigFromFile(configPath string) (*model.Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return nil, err
	}

	config := model.DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the config file
func (s *YAMLStore) SaveConfig(config *model.Config) error {
	configPath := s.configFile
	if configPath == "" {
		configPath = DefaultConfigFile
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// LoadProject loads a project from a file
func (s *YAMLStore) LoadProject(path string) (*model.Project, error) {
	data, err := os.ReadFile(path)
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

// LoadOrCreateProject loads a project from a file, or creates a new one if
// it doesn't exist. The second return value reports whether the project was
// created.
func (s *YAMLStore) LoadOrCreateProject(path string, name string) (*model.Project, bool, error) {
	data, err := os.ReadFile(path)
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
func (s *YAMLStore) SaveProject(path string, project *model.Project) error {
	data, err := yaml.Marshal(project)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// CreateProject creates a new project file
func (s *YAMLStore) CreateProject(path string, name string) (*model.Project, error) {
	project := model.NewProject(name)

	if err := s.SaveProject(path, project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListProjects lists all project files in a directory
func (s *YAMLStore) ListProjects(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		// the bare config file shares the suffix and is not a project
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ProjectFileSuffix) && entry.Name() != DefaultConfigFile {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// Store interface for dependency injection
type Store interface {
	LoadConfig() (*model.Config, error)
	SaveConfig(config *model.Config) error
	LoadProject(path string) (*model.Project, error)
	SaveProject(path string, project *model.Project) error
	CreateProject(path string, name string) (*model.Project, error)
	ListProjects(dir string) ([]string, error)
}

// Ensure YAMLStore implements Store interface
var _ Store = (*YAMLStore)(nil)
