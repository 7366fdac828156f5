package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"pathfinder/guide-api/config"
	"pathfinder/guide-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuidance(t *testing.T) *GuidanceService {
	t.Helper()
	return NewGuidanceService(newTestDB(t), NewRecommender(config.AIConfig{Timeout: time.Second}))
}

func TestRecommendStoresSession(t *testing.T) {
	g := newGuidance(t)
	userID := uint(5)

	session, result, err := g.Recommend(context.Background(), &userID, json.RawMessage(`{"skills":["go"]}`), "backend")
	require.NoError(t, err)
	assert.Equal(t, mockRecommendation, result["recommendation"])

	var stored model.GuidanceSession
	require.NoError(t, g.db.First(&stored, session.ID).Error)
	assert.JSONEq(t, `{"profile":{"skills":["go"]},"goals":"backend"}`, string(stored.Inputs))
	assert.JSONEq(t, `{"recommendation":"`+mockRecommendation+`"}`, string(stored.Result))
	require.NotNil(t, stored.UserID)
	assert.Equal(t, userID, *stored.UserID)
}

func TestRecommendDefaultsProfile(t *testing.T) {
	g := newGuidance(t)

	session, _, err := g.Recommend(context.Background(), nil, nil, "")
	require.NoError(t, err)
	assert.Nil(t, session.UserID)
	assert.JSONEq(t, `{"profile":{},"goals":""}`, string(session.Inputs))
}

func TestRecommendFalsyProfiles(t *testing.T) {
	g := newGuidance(t)

	for _, raw := range []string{`null`, `false`, `0`, `""`, `[]`, `{}`} {
		session, _, err := g.Recommend(context.Background(), nil, json.RawMessage(raw), "g")
		require.NoError(t, err, raw)
		assert.JSONEq(t, `{"profile":{},"goals":"g"}`, string(session.Inputs), raw)
	}

	session, _, err := g.Recommend(context.Background(), nil, json.RawMessage(`["go"]`), "g")
	require.NoError(t, err)
	assert.JSONEq(t, `{"profile":["go"],"goals":"g"}`, string(session.Inputs))
}

func TestRecommendProviderTimeoutStillStoresSession(t *testing.T) {
	cfg := provider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	cfg.Timeout = 50 * time.Millisecond

	g := NewGuidanceService(newTestDB(t), NewRecommender(cfg))

	session, result, err := g.Recommend(context.Background(), nil, nil, "g")
	require.NoError(t, err)
	assert.Contains(t, result, "error")

	var stored model.GuidanceSession
	require.NoError(t, g.db.First(&stored, session.ID).Error)

	var storedResult map[string]any
	require.NoError(t, json.Unmarshal(stored.Result, &storedResult))
	assert.Equal(t, mockRecommendation, storedResult["recommendation"])
	assert.NotEmpty(t, storedResult["error"])
}

func TestGoalsText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: `"backend roles"`, want: "backend roles"},
		{raw: ``, want: ""},
		{raw: `null`, want: ""},
		{raw: `false`, want: ""},
		{raw: `0`, want: ""},
		{raw: `[]`, want: ""},
		{raw: `{}`, want: ""},
		{raw: `5`, want: "5"},
		{raw: `true`, want: "true"},
		{raw: `[ "go", "sql" ]`, want: `["go","sql"]`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GoalsText(json.RawMessage(tt.raw)), tt.raw)
	}
}

func TestRecordEvent(t *testing.T) {
	g := newGuidance(t)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	g.now = func() time.Time { return fixed }

	ev, err := g.RecordEvent(context.Background(), nil, "page_view", nil)
	require.NoError(t, err)
	assert.NotZero(t, ev.ID)
	assert.JSONEq(t, `{}`, string(ev.Metadata))
	assert.Equal(t, time.UTC, ev.CreatedAt.Location())

	userID := uint(2)
	ev, err = g.RecordEvent(context.Background(), &userID, "", json.RawMessage(`{"page":"/home","n":[1,2]}`))
	require.NoError(t, err)

	var stored model.Event
	require.NoError(t, g.db.First(&stored, ev.ID).Error)
	assert.Equal(t, "", stored.Name)
	assert.JSONEq(t, `{"page":"/home","n":[1,2]}`, string(stored.Metadata))
}
