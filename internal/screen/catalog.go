package screen

import (
	"gamescope/app/internal/models"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/session"
)

// Catalog lists every game. It is read-only.
type Catalog struct {
	*listScreen[models.Game]
}

func NewCatalog(env *Env, sess *session.Session) *Catalog {
	src := replica.Source[models.Game]{
		Store:      env.Store,
		Collection: models.CollectionGames,
		Decode:     models.DecodeGame,
	}
	return &Catalog{listScreen: newListScreen(env, sess, "games.list", src)}
}

// Game returns a game from the loaded catalog.
func (c *Catalog) Game(id string) (models.Game, bool) {
	return c.list().Find(id)
}
