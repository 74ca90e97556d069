package config

import (
	"errors"
	"fmt"
	"os"

	"field-dispatch-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// AssignmentDefaults is the on-disk shape of the criteria file.
type AssignmentDefaults struct {
	Criteria domain.AssignmentCriteria `yaml:"criteria"`
	Filters  domain.SuitabilityFilters `yaml:"filters"`
}

// DefaultAssignmentDefaults mirrors domain.DefaultCriteria / DefaultFilters.
func DefaultAssignmentDefaults() AssignmentDefaults {
	return AssignmentDefaults{
		Criteria: domain.DefaultCriteria(),
		Filters:  domain.DefaultFilters(),
	}
}

// LoadAssignmentDefaults reads criteria and filters from a YAML file. Keys
// missing from the file keep their built-in defaults. An empty path returns
// the built-in defaults.
func LoadAssignmentDefaults(path string) (AssignmentDefaults, error) {
	out := DefaultAssignmentDefaults()
	if path == "" {
		return out, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return AssignmentDefaults{}, fmt.Errorf("load criteria: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(b, &out); err != nil {
		return AssignmentDefaults{}, fmt.Errorf("load criteria: parse yaml: %w", err)
	}

	if err := validateCriteria(out.Criteria); err != nil {
		return AssignmentDefaults{}, fmt.Errorf("load criteria: %w", err)
	}

	return out, nil
}

func validateCriteria(c domain.AssignmentCriteria) error {
	if c.MaxDistanceMiles <= 0 {
		return errors.New("max_distance_miles must be positive")
	}
	w := c.Weights
	if w.Distance < 0 || w.Performance < 0 || w.Workload < 0 || w.Specialization < 0 {
		return errors.New("weights must be non-negative")
	}
	return nil
}
