package format

import (
	"encoding/json"

	"github.com/mkuznecov/estima/internal/model"
)

// JSONFormatter formats projects as JSON with calculated values
type JSONFormatter struct {
	config *model.Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(config *model.Config) *JSONFormatter {
	return &JSONFormatter{config: config}
}

// Format formats a project as JSON
func (f *JSONFormatter) Format(project *model.Project) (string, error) {
	output := BuildOutput(project, f.config)
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
