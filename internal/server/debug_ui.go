package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/AhmyaBBA/Sound-Feedback/internal/swipe"
)

//go:embed templates/deck.html
var templatesFS embed.FS

var deckTmpl = template.Must(template.ParseFS(templatesFS, "templates/deck.html"))

// Gradient stops end up inside a style attribute, so only hex colors pass.
var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

type deckPageData struct {
	Size    int
	Version uint64
	Cards   []cardView
	Routes  []RouteDoc
}

type cardView struct {
	ID    string
	Name  string
	Age   string
	Bio   string
	Top   bool
	Style template.CSS
}

func (s *Server) DebugDeck(c echo.Context) error {
	f, err := s.previewFrame(c)
	if err != nil {
		return s.mapError(c, err)
	}
	templ.Handler(DeckPage(f, s.routes.List())).ServeHTTP(c.Response(), c.Request())
	return nil
}

// DeckPage draws a frame as stacked, transformed cards plus the route list.
// The live client in /static/js attaches to the same markup.
func DeckPage(f swipe.Frame, routes []RouteDoc) templ.Component {
	data := deckPageData{
		Size:    f.Size,
		Version: f.Version,
		Cards:   make([]cardView, 0, len(f.Cards)),
		Routes:  routes,
	}
	for _, rc := range f.Cards {
		data.Cards = append(data.Cards, newCardView(rc))
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return deckTmpl.Execute(w, data)
	})
}

func newCardView(rc swipe.RenderedCard) cardView {
	v := cardView{ID: string(rc.Card.ID), Top: rc.IsTop}
	v.Name, _ = rc.Card.Payload["name"].(string)
	v.Bio, _ = rc.Card.Payload["bio"].(string)
	if age, ok := rc.Card.Payload["age"]; ok && age != nil {
		v.Age = fmt.Sprint(age)
	}

	// Only numbers are formatted into the style, plus validated colors.
	style := fmt.Sprintf("transform: translate(%.1fpx, %.1fpx) rotate(%.2fdeg) scale(%.2f); z-index: %d;",
		rc.OffsetX, rc.OffsetY, rc.RotationDegrees, rc.Scale, rc.ZOrder)
	if bg := gradient(rc.Card.Payload["gradient"]); bg != "" {
		style += " background: " + bg + ";"
	}
	v.Style = template.CSS(style)
	return v
}

func gradient(v any) string {
	var stops []string
	switch g := v.(type) {
	case []string:
		stops = g
	case []any:
		for _, s := range g {
			if str, ok := s.(string); ok {
				stops = append(stops, str)
			}
		}
	}
	if len(stops) < 2 {
		return ""
	}
	for _, s := range stops {
		if !hexColor.MatchString(s) {
			return ""
		}
	}
	return "linear-gradient(135deg, " + strings.Join(stops, ", ") + ")"
}
