package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/portaudit/checklist-scoring/internal/repository/models"
)

// readProjectFile loads a checklist document from YAML or JSON. The document
// is re-encoded as JSON so the lenient collection decoding of the checklist
// types applies to both formats.
func readProjectFile(path string) (models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Project{}, fmt.Errorf("read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.Project{}, fmt.Errorf("parse %s: %w", path, err)
	}

	// A bare list is a checklist without project metadata.
	if list, ok := doc.([]any); ok {
		doc = map[string]any{"modules": list}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return models.Project{}, fmt.Errorf("parse %s: %w", path, err)
	}

	var p models.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Project{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}
