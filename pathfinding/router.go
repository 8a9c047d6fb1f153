package pathfinding

import (
	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/logging"
)

// DefaultCacheSize bounds the router's route cache.
const DefaultCacheSize = 1024

// Router turns stored connections into drawable routes. It resolves port
// positions from element boxes, recomputes automatic ports, collects
// obstacles and memoizes the results.
type Router struct {
	registry diagram.Registry
	cache    *PathCache
}

// NewRouter creates a router. A nil registry uses element sizes and
// DefaultSize only; a nil cache disables caching.
func NewRouter(reg diagram.Registry, cache *PathCache) *Router {
	return &Router{registry: reg, cache: cache}
}

// Cache returns the router's cache, or nil.
func (r *Router) Cache() *PathCache {
	return r.cache
}

// Request builds the routing request for a connection. It returns false
// if either endpoint element is missing.
func (r *Router) Request(conn diagram.Connection, elements []diagram.Element) (PathRequest, bool) {
	var src, dst *diagram.Element
	for i := range elements {
		switch elements[i].ID {
		case conn.SourceID:
			src = &elements[i]
		case conn.TargetID:
			dst = &elements[i]
		}
	}
	if src == nil || dst == nil {
		return PathRequest{}, false
	}

	sb := src.Bounds(r.registry)
	tb := dst.Bounds(r.registry)

	sp, tp := conn.SourcePort, conn.TargetPort
	autoS, autoT := ChooseOptimalPorts(sb, tb)
	if !conn.ManualPorts || sp.IsAuto() {
		sp = autoS
	}
	if !conn.ManualPorts || tp.IsAuto() {
		tp = autoT
	}

	var obstacles []geometry.Rect
	for _, e := range elements {
		if e.ID == src.ID || e.ID == dst.ID || diagram.IsFrame(e, r.registry) {
			continue
		}
		obstacles = append(obstacles, e.Bounds(r.registry))
	}

	return PathRequest{
		Source:      PortPosition(sb, sp),
		Target:      PortPosition(tb, tp),
		SourcePort:  sp,
		TargetPort:  tp,
		Style:       conn.LineStyle,
		Obstacles:   obstacles,
		CurveAmount: conn.CurveAmount,
		Waypoints:   conn.Waypoints,
		SourceBox:   &sb,
		TargetBox:   &tb,
	}, true
}

// Route computes the route of one connection.
func (r *Router) Route(conn diagram.Connection, elements []diagram.Element) (Route, bool) {
	req, ok := r.Request(conn, elements)
	if !ok {
		logging.Logger().Debug("connection endpoint missing", "connection", conn.ID,
			"source", conn.SourceID, "target", conn.TargetID)
		return Route{}, false
	}
	return r.compute(req), true
}

// RouteAll computes routes for every connection whose endpoints exist,
// keyed by connection id.
func (r *Router) RouteAll(d *diagram.Diagram) map[string]Route {
	routes := make(map[string]Route, len(d.Connections))
	for _, c := range d.Connections {
		if rt, ok := r.Route(c, d.Elements); ok {
			routes[c.ID] = rt
		}
	}
	if r.cache != nil {
		logging.Logger().Debug("routed connections", "count", len(routes), "cache", r.cache.String())
	}
	return routes
}

func (r *Router) compute(req PathRequest) Route {
	if r.cache == nil {
		return ComputeRoute(req)
	}
	if rt, ok := r.cache.Get(req); ok {
		return rt
	}
	rt := ComputeRoute(req)
	r.cache.Put(req, rt)
	return rt
}
