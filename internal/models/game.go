package models

import "gamescope/app/internal/backend"

// Game is a catalog entry. Clients never edit games; they are seeded out of band.
type Game struct {
	ID          string `doc:"-" json:"id" yaml:"id"`
	Title       string `doc:"title" json:"title" yaml:"title"`
	Category    string `doc:"category" json:"category" yaml:"category"`
	Platform    string `doc:"platform" json:"platform" yaml:"platform"`
	ReleaseDate string `doc:"releaseDate" json:"releaseDate" yaml:"releaseDate"`
	Summary     string `doc:"summary" json:"summary" yaml:"summary"`
	Image       string `doc:"image" json:"image" yaml:"image"`
}

func (g Game) Key() string { return g.ID }

// DecodeGame builds a Game from a games document. Only the title is required.
func DecodeGame(doc backend.Document) (Game, error) {
	var g Game
	if err := decodeDocument(doc, &g, "title"); err != nil {
		return Game{}, err
	}
	g.ID = doc.ID
	return g, nil
}

// Fields returns the document body for g.
func (g Game) Fields() map[string]any {
	return map[string]any{
		"title":       g.Title,
		"category":    g.Category,
		"platform":    g.Platform,
		"releaseDate": g.ReleaseDate,
		"summary":     g.Summary,
		"image":       g.Image,
	}
}
