// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindByTaskType returns the registered activity for a worker task type,
// or nil when the task type is not in the registry.
func (r *ActivityRegistry) FindByTaskType(taskType string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i]
		}
	}
	return nil
}

// Validate checks registry consistency: unique task types and known
// worker categories.
func (r *ActivityRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.TaskType == "" {
			return fmt.Errorf("activity %s has no task type", a.ID)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("duplicate task type %s", a.TaskType)
		}
		seen[a.TaskType] = true
		if !ValidCategories[a.Category] {
			return fmt.Errorf("activity %s has unknown category %s", a.ID, a.Category)
		}
	}
	return nil
}
