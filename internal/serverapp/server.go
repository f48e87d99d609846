package serverapp

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/AhmyaBBA/Sound-Feedback/internal/config"
	"github.com/AhmyaBBA/Sound-Feedback/internal/feedback"
	"github.com/AhmyaBBA/Sound-Feedback/internal/httpmw"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/server"
	"github.com/AhmyaBBA/Sound-Feedback/internal/session"
	"github.com/AhmyaBBA/Sound-Feedback/internal/telemetry"
)

// eventLimit bounds the in-memory swipe log.
const eventLimit = 10_000

type Options struct {
	Config *config.Config
	Logger *slog.Logger
}

// App is the assembled host: echo routes, session hub and their shared state.
type App struct {
	Echo   *echo.Echo
	Hub    *session.Hub
	Events *telemetry.MemoryRepository

	closers []func()
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg := opts.Config
	logger := opts.Logger

	app := &App{Events: telemetry.NewMemoryRepository(eventLimit)}

	var store profile.Store = profile.NewEmbeddedStore()
	if p := strings.TrimSpace(cfg.Server.ProfilesPath); p != "" {
		store = profile.NewFileStore(p)
		logger.Info("profiles from file", "path", p)
	}

	policy, err := loadPolicy(cfg.Feedback, logger)
	if err != nil {
		return nil, err
	}
	if lp, ok := policy.(*feedback.LuaPolicy); ok {
		app.closers = append(app.closers, lp.Close)
	}

	deckOpts := cfg.Deck.SwipeOptions()
	app.Hub = session.NewHub(session.Options{
		Profiles:       store,
		Deck:           deckOpts,
		Policy:         policy,
		Feedback:       cfg.Feedback.Enabled,
		Music:          cfg.Feedback.Music,
		Events:         app.Events,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		httpmw.WithRequestID(),
		httpmw.WithAccessLog(logger),
		httpmw.WithRecover(logger),
	)
	server.New(server.Options{
		Profiles: store,
		Events:   app.Events,
		WS:       app.Hub,
		Deck:     deckOpts,
		Logger:   logger,
	}).Register(e)
	app.Echo = e

	return app, nil
}

// Close releases the feedback script runtime.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}

// loadPolicy picks the scripted policy when a script is configured and
// present, the built-in one otherwise. A broken script is an error.
func loadPolicy(cfg config.FeedbackConfig, logger *slog.Logger) (feedback.Policy, error) {
	path := strings.TrimSpace(cfg.ScriptPath)
	if path == "" {
		return feedback.DefaultPolicy{}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Warn("feedback script missing, using built-in policy", "path", path)
		return feedback.DefaultPolicy{}, nil
	}
	p, err := feedback.LoadLuaPolicy(path)
	if err != nil {
		return nil, err
	}
	logger.Info("feedback script loaded", "path", path)
	return p, nil
}

// NewLogger builds the JSON logger every component shares.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
