package server

import "github.com/labstack/echo/v4"

type RouteDoc struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

// RouteRegistry records what was mounted, for the debug pages.
type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	return out
}

func (rr *RouteRegistry) handle(e *echo.Echo, method, path, summary string, h echo.HandlerFunc) {
	rr.Add(RouteDoc{Method: method, Path: path, Summary: summary})
	e.Add(method, path, h)
}
