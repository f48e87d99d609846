package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/AhmyaBBA/Sound-Feedback/internal/feedback"
	"github.com/AhmyaBBA/Sound-Feedback/internal/profile"
	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
	"github.com/AhmyaBBA/Sound-Feedback/internal/telemetry"
)

// Session is one client driving one deck. Frames and swipe events are pushed
// to the client; gesture samples come back as messages.
type Session struct {
	ID string

	hub         *Hub
	deck        *swipe.Deck
	feedback    *feedback.Dispatcher
	unsubscribe func()
	logger      *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Deck exposes the session's deck, read-only use intended.
func (s *Session) Deck() *swipe.Deck {
	return s.deck
}

// Outbox returns the channel of encoded outbound messages.
// Only needed when no websocket write loop is attached.
func (s *Session) Outbox() <-chan []byte {
	return s.send
}

// Close detaches the session. Pending deck callbacks become no-ops.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.unsubscribe()
		s.deck.OnSwipe(nil)
		s.hub.close(s)
	})
}

// HandleRaw decodes and applies one inbound message.
func (s *Session) HandleRaw(ctx context.Context, data []byte) {
	var m Msg
	if err := json.Unmarshal(data, &m); err != nil {
		s.sendErr("BAD_JSON", err.Error())
		return
	}
	s.Handle(ctx, m)
}

// Handle applies one inbound message.
func (s *Session) Handle(ctx context.Context, m Msg) {
	switch m.T {
	case TypeDrag:
		var g Gesture
		if !s.decode(m, &g) {
			return
		}
		s.deck.GestureUpdate(g.DX, g.DY)

	case TypeRelease:
		var g Gesture
		if !s.decode(m, &g) {
			return
		}
		d := s.deck.GestureEnd(g.DX, g.DY)
		if d == swipe.Cancel {
			s.hub.record(telemetry.EventGestureCancelled, telemetry.EventMetadata{"session_id": s.ID})
		}
		s.sendMsg(TypeDecision, DecisionMsg{Decision: string(d)})

	case TypeAbort:
		s.deck.Abort()

	case TypeTap:
		s.hub.record(telemetry.EventTap, telemetry.EventMetadata{"session_id": s.ID})
		s.cue(ctx, feedback.Tap())

	case TypeReset:
		ps, err := s.hub.opts.Profiles.List(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "reload profiles", "error", err)
			s.sendErr("PROFILES_UNAVAILABLE", "")
			return
		}
		if err := s.deck.Replace(profile.Cards(ps)); err != nil {
			s.logger.ErrorContext(ctx, "replace deck", "error", err)
			s.sendErr("BAD_PROFILES", err.Error())
			return
		}
		s.hub.record(telemetry.EventDeckReplaced, telemetry.EventMetadata{"session_id": s.ID, "cards": len(ps)})

	case TypeMusic:
		s.sendMsg(TypeMusic, MusicMsg{On: s.feedback.ToggleMusic()})

	default:
		s.sendErr("UNKNOWN_TYPE", m.T)
	}
}

func (s *Session) decode(m Msg, v any) bool {
	if len(m.M) == 0 {
		s.sendErr("BAD_PAYLOAD", m.T+" needs a payload")
		return false
	}
	if err := json.Unmarshal(m.M, v); err != nil {
		s.sendErr("BAD_PAYLOAD", err.Error())
		return false
	}
	return true
}

func (s *Session) hello() {
	s.sendMsg(TypeHello, Hello{
		SessionID: s.ID,
		Threshold: s.deck.Threshold(),
		Music:     s.feedback.Music(),
	})
	s.sendMsg(TypeFrame, s.deck.Frame())
}

func (s *Session) onFrame(f swipe.Frame) {
	s.sendMsg(TypeFrame, f)
}

func (s *Session) onSwipe(ev swipe.SwipeEvent) {
	t := telemetry.EventSwipeLeft
	if ev.Direction == swipe.Right {
		t = telemetry.EventSwipeRight
	}
	s.hub.record(t, telemetry.EventMetadata{"session_id": s.ID, "card_id": string(ev.Card.ID)})
	s.logger.Debug("swipe", "card_id", ev.Card.ID, "direction", ev.Direction)

	s.sendMsg(TypeSwipe, ev)
	s.cue(context.Background(), feedback.SwipeEvent(ev))
}

func (s *Session) cue(ctx context.Context, ev feedback.Event) {
	c, err := s.feedback.Handle(ctx, ev)
	if err != nil {
		s.logger.WarnContext(ctx, "feedback policy", "error", err)
		return
	}
	s.sendMsg(TypeCue, c)
}

func (s *Session) sendErr(code, msg string) {
	s.sendMsg(TypeError, ErrorMsg{Code: code, Message: msg})
}

func (s *Session) sendMsg(t string, payload any) {
	b, err := json.Marshal(outMsg{T: t, M: payload})
	if err != nil {
		s.logger.Error("encode message", "type", t, "error", err)
		return
	}
	select {
	case <-s.done:
	case s.send <- b:
	default:
		s.logger.Warn("client too slow, dropping message", "type", t)
	}
}

func (s *Session) writeLoop(ctx context.Context, c *websocket.Conn) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg := <-s.send:
			if err := c.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = c.Ping(ctx)
		}
	}
}
