package screen

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"
	"gamescope/app/internal/session"
	"gamescope/app/internal/testutil"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *recorder) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type fixture struct {
	backend *testutil.Backend
	env     *Env
	sess    *session.Session
	notes   *recorder
	logs    *bytes.Buffer
	expired int
}

var (
	ana = backend.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}
	bo  = backend.User{ID: "u2", Name: "Bo", Email: "bo@example.com"}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	b := testutil.NewBackend()
	b.AddUser(ana, "secret")
	b.AddUser(bo, "secret")
	b.SignIn(ana.ID)

	f := &fixture{backend: b, notes: &recorder{}, logs: &bytes.Buffer{}}
	f.env = NewEnv(b, f.notes, log.New(f.logs, "", 0))
	f.env.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	var mu sync.Mutex
	n := 0
	f.env.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("gen-%d", n)
	}

	f.sess = session.New(ana, "token", func() { f.expired++ })
	return f
}

func (f *fixture) seedGame(id, title string) models.Game {
	g := models.Game{ID: id, Title: title, Image: "https://img.example.com/" + id + ".png"}
	f.backend.Seed(models.CollectionGames, id, g.Fields())
	return g
}

func (f *fixture) seedReview(id, gameID string, author backend.User, content, ts string) {
	f.backend.Seed(models.CollectionReviews, id, models.Review{
		GameID:    gameID,
		UserID:    author.ID,
		UserName:  author.Name,
		Content:   content,
		Timestamp: ts,
	}.Fields())
}

func reviewIDs(reviews []models.Review) []string {
	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	return ids
}
