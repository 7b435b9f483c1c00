package models

import "gamescope/app/internal/backend"

// Favorite marks a game in a user's favorites list. GameTitle and GameImage
// are snapshots of the game taken when it was favorited.
//
// At most one Favorite should exist per (UserID, GameID). The backend does
// not enforce it; clients check before inserting.
type Favorite struct {
	ID        string `doc:"-" json:"id"`
	UserID    string `doc:"userId" json:"userId"`
	GameID    string `doc:"gameId" json:"gameId"`
	GameTitle string `doc:"gameTitle" json:"gameTitle"`
	GameImage string `doc:"gameImage" json:"gameImage"`
}

func (f Favorite) Key() string { return f.ID }

// DecodeFavorite builds a Favorite from a favorites document.
func DecodeFavorite(doc backend.Document) (Favorite, error) {
	var f Favorite
	if err := decodeDocument(doc, &f, "userId", "gameId"); err != nil {
		return Favorite{}, err
	}
	f.ID = doc.ID
	return f, nil
}

// NewFavorite snapshots g into a Favorite owned by userID.
func NewFavorite(userID string, g Game) Favorite {
	return Favorite{
		UserID:    userID,
		GameID:    g.ID,
		GameTitle: g.Title,
		GameImage: g.Image,
	}
}

// Fields returns the document body for f.
func (f Favorite) Fields() map[string]any {
	return map[string]any{
		"userId":    f.UserID,
		"gameId":    f.GameID,
		"gameTitle": f.GameTitle,
		"gameImage": f.GameImage,
	}
}
