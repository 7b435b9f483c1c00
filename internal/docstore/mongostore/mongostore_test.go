package mongostore

import (
	"errors"
	"testing"
	"time"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/docstore"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestBuildFilter(t *testing.T) {
	q := backend.Where(backend.Equal("userId", "7"), backend.Equal("gameId", "g1"))

	assert.Equal(t, bson.D{
		{Key: "data.userId", Value: "7"},
		{Key: "data.gameId", Value: "g1"},
	}, buildFilter(q))
	assert.Equal(t, bson.D{}, buildFilter(backend.Query{}))
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(backend.Query{}.OrderedDesc("timestamp"))
	assert.Equal(t, bson.D{
		{Key: "data.timestamp", Value: -1},
		{Key: "createdAt", Value: 1},
	}, opts.Sort)

	opts = findOptions(backend.Query{})
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, opts.Sort)
}

func TestBuildUpdate(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)

	update := buildUpdate(map[string]any{"userName": "New", "content": "x"}, now)

	assert.Equal(t, bson.D{{Key: "$set", Value: bson.D{
		{Key: "data.content", Value: "x"},
		{Key: "data.userName", Value: "New"},
		{Key: "updatedAt", Value: now.Truncate(time.Millisecond)},
	}}}, update)
}

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError("get games/x", mongo.ErrNoDocuments), docstore.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapError("create games/x", dup), docstore.ErrConflict)

	other := errors.New("server selection timeout")
	err := mapError("list games", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, docstore.ErrNotFound)
}

func TestPlain(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	data := map[string]any{
		"title":  "Hades",
		"rating": int32(9),
		"tags":   primitive.A{"roguelike", int64(2)},
		"meta":   primitive.D{{Key: "source", Value: "seed"}},
		"seenAt": primitive.NewDateTimeFromTime(ts),
	}

	out := plain(data)
	seenAt, ok := out["seenAt"].(time.Time)
	assert.True(t, ok)
	assert.True(t, ts.Equal(seenAt))
	delete(out, "seenAt")

	assert.Equal(t, map[string]any{
		"title":  "Hades",
		"rating": float64(9),
		"tags":   []any{"roguelike", float64(2)},
		"meta":   map[string]any{"source": "seed"},
	}, out)
}
