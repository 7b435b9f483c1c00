package screen

import (
	"context"
	"strings"
	"sync"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/session"
)

// GameDetail shows a single game and whether the user has favorited it.
type GameDetail struct {
	env   *Env
	sess  *session.Session
	scope *replica.Scope

	mu        sync.Mutex
	game      models.Game
	loaded    bool
	favorited bool
}

func NewGameDetail(env *Env, sess *session.Session) *GameDetail {
	return &GameDetail{env: env, sess: sess, scope: replica.NewScope()}
}

// Open mounts the screen and loads gameID.
func (d *GameDetail) Open(ctx context.Context, gameID string) error {
	d.scope.Mount()
	return d.Load(ctx, gameID)
}

// Close unmounts the screen; loads still in flight are dropped.
func (d *GameDetail) Close() {
	d.scope.Unmount()
}

// Load fetches the game and its favorite state. On failure whatever was
// displayed before stays.
func (d *GameDetail) Load(ctx context.Context, gameID string) error {
	const op = "games.get"

	if strings.TrimSpace(gameID) == "" {
		return d.env.reject(op, apperr.InvalidArgument, "game ID must not be empty")
	}
	if err := d.env.requireSession(d.sess, op); err != nil {
		return err
	}

	ctx, gen, done, ok := d.scope.Begin(ctx)
	defer done()
	if !ok {
		return replica.ErrUnmounted
	}

	doc, err := d.env.Store.GetDocument(ctx, models.CollectionGames, gameID)
	if !d.scope.Live(gen) {
		return replica.ErrUnmounted
	}
	if err != nil {
		return d.env.fail(d.sess, op, err)
	}

	game, err := models.DecodeGame(doc)
	if err != nil {
		d.env.logf("Warning: dropping malformed games document %q: %v", gameID, err)
		return d.env.fail(d.sess, op, apperr.New(apperr.NotFound, op, "game is unavailable"))
	}

	d.mu.Lock()
	d.game = game
	d.loaded = true
	d.mu.Unlock()

	favs, err := d.env.Store.ListDocuments(ctx, models.CollectionFavorites,
		backend.Where(backend.Equal("userId", d.sess.UserID()), backend.Equal("gameId", gameID)))
	if !d.scope.Live(gen) {
		return replica.ErrUnmounted
	}
	if err != nil {
		return d.env.fail(d.sess, "favorites.list", err)
	}

	d.mu.Lock()
	d.favorited = len(favs) > 0
	d.mu.Unlock()
	return nil
}

// Game returns the loaded game.
func (d *GameDetail) Game() (models.Game, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.game, d.loaded
}

// Favorited is the last known favorite state. It is display-only; toggling
// re-checks with the backend.
func (d *GameDetail) Favorited() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.favorited
}

// ToggleFavorite flips the favorite state of the displayed game.
func (d *GameDetail) ToggleFavorite(ctx context.Context) (ToggleResult, error) {
	game, ok := d.Game()
	if !ok {
		return ToggleResult{}, d.env.reject("favorites.toggle", apperr.InvalidArgument, "no game loaded")
	}
	result, err := toggleFavorite(ctx, d.env, d.sess, nil, game)
	if err != nil {
		return result, err
	}
	d.mu.Lock()
	d.favorited = result.Favorited
	d.mu.Unlock()
	return result, nil
}
