// Package seed loads the game catalog from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gamescope/app/internal/docstore"
	"gamescope/app/internal/models"

	"gopkg.in/yaml.v3"
)

// File is the layout of a seed file.
type File struct {
	Games []models.Game `yaml:"games"`
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// Load reads and validates a seed file.
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes seed YAML. Every game needs a unique id and a title.
func Parse(raw []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(f.Games))
	for i, g := range f.Games {
		id := strings.TrimSpace(g.ID)
		switch {
		case id == "":
			return File{}, fmt.Errorf("game #%d: id is required", i+1)
		case strings.TrimSpace(g.Title) == "":
			return File{}, fmt.Errorf("game %q: title is required", id)
		case seen[id]:
			return File{}, fmt.Errorf("game %q: duplicate id", id)
		}
		seen[id] = true
		f.Games[i].ID = id
	}
	return f, nil
}

// Apply creates the games that do not exist yet. Existing games are left
// untouched, so running it at every boot is safe.
func Apply(ctx context.Context, repo docstore.Repository, f File) (Result, error) {
	var res Result
	for _, g := range f.Games {
		_, err := repo.Create(ctx, models.CollectionGames, g.ID, g.Fields())
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, docstore.ErrConflict):
			res.Skipped++
		default:
			return res, fmt.Errorf("seed game %q: %w", g.ID, err)
		}
	}
	return res, nil
}
