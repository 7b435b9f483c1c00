package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gamescope/app/internal/docstore/gormstore"
	"gamescope/app/internal/models"
	"gamescope/app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `
games:
  - id: elden-ring
    title: Elden Ring
    category: Action RPG
    platform: PC
    releaseDate: "2022-02-25"
    image: https://img.example.com/elden-ring.png
  - id: hades
    title: Hades
    category: Roguelike
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))

	f, err := Load(path)
	require.NoError(t, err)

	require.Len(t, f.Games, 2)
	assert.Equal(t, "elden-ring", f.Games[0].ID)
	assert.Equal(t, "2022-02-25", f.Games[0].ReleaseDate)
	assert.Equal(t, "Roguelike", f.Games[1].Category)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing id":    "games:\n  - title: X\n",
		"missing title": "games:\n  - id: x\n",
		"duplicate id":  "games:\n  - id: x\n    title: X\n  - id: x\n    title: Y\n",
		"bad yaml":      "games: [",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := gormstore.New(testutil.OpenDB(t))
	f, err := Parse([]byte(catalog))
	require.NoError(t, err)

	first, err := Apply(ctx, repo, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2}, first)

	_, err = repo.Update(ctx, models.CollectionGames, "hades", map[string]any{"summary": "edited"})
	require.NoError(t, err)

	second, err := Apply(ctx, repo, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, second)

	doc, err := repo.Get(ctx, models.CollectionGames, "hades")
	require.NoError(t, err)
	assert.Equal(t, "edited", doc.Data["summary"])

	game, err := models.DecodeGame(doc)
	require.NoError(t, err)
	assert.Equal(t, "Hades", game.Title)
}
