package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AhmyaBBA/Sound-Feedback/internal/httpmw"
	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
	"github.com/AhmyaBBA/Sound-Feedback/internal/telemetry"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type stubStore struct {
	ps  []profile.Profile
	err error
}

func (s stubStore) List(context.Context) ([]profile.Profile, error) {
	return s.ps, s.err
}

func newTestEcho(t *testing.T, store profile.Store, events telemetry.Repository) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(httpmw.WithRequestID())
	New(Options{
		Profiles: store,
		Events:   events,
		Deck:     swipe.Options{Scheduler: swipe.NewFakeClock(testNow)},
		Now:      func() time.Time { return testNow },
	}).Register(e)
	return e
}

func get(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	e := newTestEcho(t, profile.NewEmbeddedStore(), nil)
	rec := get(t, e, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "swipedeck", body.Service)
	assert.Equal(t, 0, body.Sessions)
	assert.Equal(t, "2024-03-01T12:00:00Z", body.Time)
}

func TestProfiles(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		e := newTestEcho(t, profile.NewEmbeddedStore(), nil)
		rec := get(t, e, "/v1/profiles")
		require.Equal(t, http.StatusOK, rec.Code)

		var body ProfilesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 6, body.Count)
		assert.Equal(t, "p_ava", body.Profiles[0].ID)
	})

	t.Run("store empty", func(t *testing.T) {
		e := newTestEcho(t, stubStore{err: profile.ErrNoProfiles}, nil)
		rec := get(t, e, "/v1/profiles")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body.RequestID)
	})
}

func TestStats(t *testing.T) {
	events := telemetry.NewMemoryRepository(0).WithClock(func() time.Time { return testNow.Add(-2 * time.Hour) })
	require.NoError(t, events.RecordEvent(telemetry.EventSwipeLeft, telemetry.EventMetadata{"card_id": "p_ava"}))
	events.WithClock(func() time.Time { return testNow.Add(-time.Minute) })
	require.NoError(t, events.RecordEvent(telemetry.EventSwipeRight, telemetry.EventMetadata{"card_id": "p_noah"}))

	e := newTestEcho(t, profile.NewEmbeddedStore(), events)

	tests := []struct {
		name    string
		target  string
		code    int
		swipes  int
		percent float64
	}{
		{"all time", "/v1/stats", http.StatusOK, 2, 50},
		{"window", "/v1/stats?window=1h", http.StatusOK, 1, 100},
		{"since", "/v1/stats?since=" + testNow.Add(-3*time.Hour).Format(time.RFC3339), http.StatusOK, 2, 50},
		{"bad since", "/v1/stats?since=yesterday", http.StatusBadRequest, 0, 0},
		{"bad window", "/v1/stats?window=-1h", http.StatusBadRequest, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, e, tt.target)
			require.Equal(t, tt.code, rec.Code)
			if tt.code != http.StatusOK {
				return
			}
			var stats telemetry.Stats
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
			assert.Equal(t, tt.swipes, stats.Swipes)
			assert.InDelta(t, tt.percent, stats.MatchPercent, 0.001)
		})
	}
}

func TestDeckFrame(t *testing.T) {
	e := newTestEcho(t, profile.NewEmbeddedStore(), nil)

	t.Run("rest", func(t *testing.T) {
		rec := get(t, e, "/v1/deck")
		require.Equal(t, http.StatusOK, rec.Code)

		var f swipe.Frame
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
		assert.Equal(t, 6, f.Size)
		require.Len(t, f.Cards, 5)
		assert.True(t, f.Cards[0].IsTop)
		assert.Equal(t, 6, f.Cards[0].ZOrder)
		assert.InDelta(t, 0.96, f.Cards[1].Scale, 1e-9)
	})

	t.Run("drag preview", func(t *testing.T) {
		rec := get(t, e, "/v1/deck?dx=30&dy=-6")
		require.Equal(t, http.StatusOK, rec.Code)

		var f swipe.Frame
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
		assert.InDelta(t, 30, f.Cards[0].OffsetX, 1e-9)
		assert.InDelta(t, -6, f.Cards[0].OffsetY, 1e-9)
		assert.InDelta(t, 2, f.Cards[0].RotationDegrees, 1e-9)
		assert.InDelta(t, 0, f.Cards[1].OffsetX, 1e-9)
	})

	for _, q := range []string{"dx=abc", "dy=NaN", "dx=Inf"} {
		t.Run("rejects "+q, func(t *testing.T) {
			rec := get(t, e, "/v1/deck?"+q)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("duplicate profiles", func(t *testing.T) {
		dup := stubStore{ps: []profile.Profile{{ID: "a"}, {ID: "a"}}}
		rec := get(t, newTestEcho(t, dup, nil), "/v1/deck")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestDebugDeck(t *testing.T) {
	e := newTestEcho(t, profile.NewEmbeddedStore(), nil)
	rec := get(t, e, "/debug/deck?dx=45")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `data-card-id="p_ava"`)
	assert.Contains(t, body, "rotate(3.00deg)")
	assert.Contains(t, body, "/static/js/deck.js")
	assert.Contains(t, body, "/v1/stats")
}

func TestDeckPageEscapes(t *testing.T) {
	card := model.NewCard("x", map[string]any{"name": "<script>", "bio": `"quoted"`})
	f := swipe.Frame{
		Size:  1,
		Cards: swipe.DefaultPresenter().Render([]model.Card{card}, swipe.DragState{}, swipe.Instant),
	}

	var b bytes.Buffer
	require.NoError(t, DeckPage(f, nil).Render(context.Background(), &b))
	assert.NotContains(t, b.String(), "<h2><script>")
	assert.Contains(t, b.String(), "&lt;script&gt;")
	assert.Contains(t, b.String(), "&#34;quoted&#34;")
}

func TestDeckPageStyle(t *testing.T) {
	render := func(payload map[string]any) string {
		t.Helper()
		card := model.NewCard("x", payload)
		f := swipe.Frame{
			Size:  1,
			Cards: swipe.DefaultPresenter().Render([]model.Card{card}, swipe.DragState{}, swipe.Instant),
		}
		var b bytes.Buffer
		require.NoError(t, DeckPage(f, nil).Render(context.Background(), &b))
		return b.String()
	}

	t.Run("hex gradient is drawn", func(t *testing.T) {
		out := render(map[string]any{"name": "A", "gradient": []any{"#ff9a9e", "#fad0c4"}})
		assert.Contains(t, out, "linear-gradient(135deg, #ff9a9e, #fad0c4)")
	})

	t.Run("other gradient values are dropped", func(t *testing.T) {
		out := render(map[string]any{"name": "A", "gradient": []any{"red;}</style>", "#fff"}})
		assert.NotContains(t, out, "linear-gradient")
		assert.NotContains(t, out, "</style>")
		assert.NotContains(t, out, "ZgotmplZ")
	})

	t.Run("age is escaped", func(t *testing.T) {
		out := render(map[string]any{"name": "A", "age": "<b>9</b>"})
		assert.Contains(t, out, `<span class="age">&lt;b&gt;9&lt;/b&gt;</span>`)
	})
}

func TestRoutesAndStatic(t *testing.T) {
	e := newTestEcho(t, profile.NewEmbeddedStore(), nil)

	rec := get(t, e, "/debug/routes")
	require.Equal(t, http.StatusOK, rec.Code)
	var routes []RouteDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		paths = append(paths, fmt.Sprintf("%s %s", r.Method, r.Path))
	}
	assert.Contains(t, paths, "GET /healthz")
	assert.NotContains(t, paths, "GET /ws")

	assert.Equal(t, http.StatusOK, get(t, e, "/static/css/deck.css").Code)
	assert.Equal(t, http.StatusNotFound, get(t, e, "/static/css/missing.css").Code)
}
