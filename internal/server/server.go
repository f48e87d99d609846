package server

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AhmyaBBA/Sound-Feedback/internal/httpmw"
	"github.com/AhmyaBBA/Sound-Feedback/internal/model"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
	"github.com/AhmyaBBA/Sound-Feedback/internal/telemetry"
	staticfiles "github.com/AhmyaBBA/Sound-Feedback/static"
)

var errBadQuery = errors.New("bad query")

type Options struct {
	Profiles profile.Store
	Events   telemetry.Repository

	// WS serves /ws; usually a *session.Hub.
	WS     http.Handler
	Deck   swipe.Options
	Logger *slog.Logger
	Now    func() time.Time
}

// Server holds the HTTP handlers of the deck host.
type Server struct {
	profiles profile.Store
	events   telemetry.Repository
	ws       http.Handler
	deck     swipe.Options
	logger   *slog.Logger
	now      func() time.Time
	routes   *RouteRegistry
	sessions func() int
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Events == nil {
		opts.Events = telemetry.NewMemoryRepository(0)
	}
	s := &Server{
		profiles: opts.Profiles,
		events:   opts.Events,
		ws:       opts.WS,
		deck:     opts.Deck,
		logger:   opts.Logger,
		now:      opts.Now,
		routes:   &RouteRegistry{},
		sessions: func() int { return 0 },
	}
	if c, ok := opts.WS.(interface{ Count() int }); ok {
		s.sessions = c.Count
	}
	return s
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	s.routes.handle(e, http.MethodGet, "/healthz", "liveness and open session count", s.Healthz)
	s.routes.handle(e, http.MethodGet, "/v1/profiles", "profiles backing the deck", s.Profiles)
	s.routes.handle(e, http.MethodGet, "/v1/stats", "swipe stats, ?since=RFC3339 or ?window=1h", s.Stats)
	s.routes.handle(e, http.MethodGet, "/v1/deck", "frame of a fresh deck, ?dx=&dy= previews a drag", s.DeckFrame)
	s.routes.handle(e, http.MethodGet, "/debug/deck", "HTML preview of a fresh deck", s.DebugDeck)
	s.routes.handle(e, http.MethodGet, "/debug/routes", "this list", s.Routes)
	assets := http.StripPrefix("/static/", http.FileServer(http.FS(staticfiles.EmbeddedFS())))
	e.GET("/static/*", echo.WrapHandler(assets))
	if s.ws != nil {
		s.routes.handle(e, http.MethodGet, "/ws", "gesture session websocket", echo.WrapHandler(s.ws))
	}
}

func (s *Server) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		OK:       true,
		Service:  "swipedeck",
		Sessions: s.sessions(),
		Time:     s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) Profiles(c echo.Context) error {
	ps, err := s.profiles.List(c.Request().Context())
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, ProfilesResponse{Profiles: ps, Count: len(ps)})
}

func (s *Server) Stats(c echo.Context) error {
	since, err := s.parseSince(c)
	if err != nil {
		return s.mapError(c, err)
	}
	events, err := s.events.GetEvents(since, nil)
	if err != nil {
		return s.mapError(c, err)
	}
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) DeckFrame(c echo.Context) error {
	f, err := s.previewFrame(c)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (s *Server) Routes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.routes.List())
}

// previewFrame builds a throwaway deck and applies the requested drag.
func (s *Server) previewFrame(c echo.Context) (swipe.Frame, error) {
	dx, err := floatParam(c, "dx")
	if err != nil {
		return swipe.Frame{}, err
	}
	dy, err := floatParam(c, "dy")
	if err != nil {
		return swipe.Frame{}, err
	}

	ps, err := s.profiles.List(c.Request().Context())
	if err != nil {
		return swipe.Frame{}, err
	}
	opts := s.deck
	opts.Logger = s.logger
	opts.OnSwipe = nil
	deck, err := swipe.NewDeck(profile.Cards(ps), opts)
	if err != nil {
		return swipe.Frame{}, err
	}
	if dx != 0 || dy != 0 {
		deck.GestureUpdate(dx, dy)
	}
	return deck.Frame(), nil
}

func (s *Server) parseSince(c echo.Context) (time.Time, error) {
	if raw := c.QueryParam("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: since must be RFC3339", errBadQuery)
		}
		return t, nil
	}
	if raw := c.QueryParam("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return time.Time{}, fmt.Errorf("%w: window must be a positive duration", errBadQuery)
		}
		return s.now().Add(-d), nil
	}
	return time.Time{}, nil
}

func floatParam(c echo.Context, name string) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", errBadQuery, name)
	}
	return v, nil
}

func (s *Server) mapError(c echo.Context, err error) error {
	rid := httpmw.RequestID(c)

	switch {
	case errors.Is(err, errBadQuery):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), RequestID: rid})
	case errors.Is(err, profile.ErrNoProfiles):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "no profiles available", RequestID: rid})
	case errors.Is(err, model.ErrDuplicateCard), errors.Is(err, model.ErrEmptyCardID):
		s.logger.Error("invalid profile data", "request_id", rid, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "invalid profile data", RequestID: rid})
	default:
		s.logger.Error("internal error", "request_id", rid, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", RequestID: rid})
	}
}
