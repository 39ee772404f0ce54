package migrate

import (
	"fmt"
	"os"
	"strings"
)

var requiredAnnotations = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks every migration in dir: filename layout, unique
// versions, and both goose annotations present.
func ValidateDir(dir string) error {
	files, err := listMigrations(dir)
	if err != nil {
		return err
	}

	for i, f := range files {
		if i > 0 && files[i-1].Version == f.Version {
			return fmt.Errorf("duplicate migration version %s (%s, %s)", f.Version, files[i-1].Name, f.Name)
		}
		body, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.Path, err)
		}
		for _, annotation := range requiredAnnotations {
			if !strings.Contains(string(body), annotation) {
				return fmt.Errorf("migration %s_%s missing %q", f.Version, f.Name, annotation)
			}
		}
	}
	return nil
}
