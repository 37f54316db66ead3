package format

import (
	"gopkg.in/yaml.v3"

	"github.com/mkuznecov/estima/internal/model"
)

// YAMLFormatter formats projects as YAML with calculated values
type YAMLFormatter struct {
	config *model.Config
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(config *model.Config) *YAMLFormatter {
	return &YAMLFormatter{config: config}
}

// Format formats a project as YAML
func (f *YAMLFormatter) Format(project *model.Project) (string, error) {
	// Use the same output structure as the JSON formatter
	output := BuildOutput(project, f.config)

	data, err := yaml.Marshal(output)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
