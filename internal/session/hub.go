package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/AhmyaBBA/Sound-Feedback/internal/feedback"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
	"github.com/AhmyaBBA/Sound-Feedback/internal/telemetry"
)

const pingInterval = 15 * time.Second

type Options struct {
	Profiles       profile.Store
	Deck           swipe.Options
	Policy         feedback.Policy
	Feedback       bool
	Music          bool
	Events         telemetry.Repository
	Logger         *slog.Logger
	AllowedOrigins []string
}

// Hub owns the live sessions, one swipe deck per websocket connection.
type Hub struct {
	opts         Options
	allowOrigins map[string]bool
	logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub(opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Policy == nil {
		opts.Policy = feedback.DefaultPolicy{}
	}
	if opts.Events == nil {
		opts.Events = telemetry.NewMemoryRepository(0)
	}
	m := map[string]bool{}
	for _, a := range opts.AllowedOrigins {
		if a != "" {
			m[a] = true
		}
	}
	return &Hub{
		opts:         opts,
		allowOrigins: m,
		logger:       opts.Logger,
		sessions:     map[string]*Session{},
	}
}

// Count returns the number of open sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Get returns the session with id, if open.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Open builds a session with a fresh deck from the profile store.
func (h *Hub) Open(ctx context.Context) (*Session, error) {
	ps, err := h.opts.Profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	s := &Session{
		ID:   uuid.NewString(),
		hub:  h,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
	s.logger = h.logger.With("session_id", s.ID)
	s.feedback = feedback.NewDispatcher(h.opts.Policy, nil, nil, s.logger)
	s.feedback.SetEnabled(h.opts.Feedback)
	s.feedback.SetMusic(h.opts.Music)

	deckOpts := h.opts.Deck
	deckOpts.Logger = s.logger
	deckOpts.OnSwipe = s.onSwipe
	deck, err := swipe.NewDeck(profile.Cards(ps), deckOpts)
	if err != nil {
		return nil, err
	}
	s.deck = deck
	s.unsubscribe = deck.Subscribe(s.onFrame)

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	h.record(telemetry.EventSessionOpened, telemetry.EventMetadata{"session_id": s.ID})
	s.logger.Info("session opened", "cards", len(ps))
	return s, nil
}

func (h *Hub) close(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	h.record(telemetry.EventSessionClosed, telemetry.EventMetadata{"session_id": s.ID})
	s.logger.Info("session closed")
}

func (h *Hub) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if err := h.opts.Events.RecordEvent(t, md); err != nil {
		h.logger.Warn("record event", "type", t, "error", err)
	}
}

// ServeWS upgrades the request and runs a session until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && !h.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	s, err := h.Open(r.Context())
	if err != nil {
		h.logger.Error("open session", "error", err)
		http.Error(w, "deck unavailable", http.StatusServiceUnavailable)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.Close()
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writeLoop(ctx, c)

	s.hello()
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		s.HandleRaw(ctx, data)
	}

	s.Close()
	_ = c.Close(websocket.StatusNormalClosure, "bye")
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ServeWS(w, r)
}
