package seed

import (
	"context"
	_ "embed"
	"fmt"

	"agora/internal/models"
	"agora/internal/repository"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

type categorySpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Color       string `yaml:"color"`
}

// DefaultCategories returns the embedded category list.
func DefaultCategories() ([]models.Category, error) {
	var specs []categorySpec
	if err := yaml.Unmarshal(categoriesYAML, &specs); err != nil {
		return nil, fmt.Errorf("parse categories.yaml: %w", err)
	}
	out := make([]models.Category, 0, len(specs))
	for _, s := range specs {
		out = append(out, models.Category{
			Name:        s.Name,
			Description: s.Description,
			Icon:        s.Icon,
			Color:       s.Color,
			IsActive:    true,
		})
	}
	return out, nil
}

// EnsureCategories creates every default category missing by name and
// returns all of them along with how many were new.
func EnsureCategories(ctx context.Context, repo repository.CategoryRepository) ([]models.Category, int, error) {
	defaults, err := DefaultCategories()
	if err != nil {
		return nil, 0, err
	}
	created := 0
	for i := range defaults {
		isNew, err := repo.Ensure(ctx, &defaults[i])
		if err != nil {
			return nil, created, fmt.Errorf("ensure category %q: %w", defaults[i].Name, err)
		}
		if isNew {
			created++
		}
	}
	return defaults, created, nil
}
