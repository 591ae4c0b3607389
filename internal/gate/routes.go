package gate

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/freight-console/internal/auth"
)

// Route is one node of the console's view tree.
type Route struct {
	Path     string    `yaml:"path"`
	View     string    `yaml:"view"`
	Public   bool      `yaml:"public"`
	Data     RouteData `yaml:"data"`
	Children []Route   `yaml:"children"`
}

// RouteData carries the static requirement a route declares.
type RouteData struct {
	Roles []string `yaml:"roles"`
}

// Match is the result of resolving a request path against the tree.
type Match struct {
	Chain  []*Route
	Params map[string]string
}

// Leaf returns the matched route.
func (m *Match) Leaf() *Route {
	return m.Chain[len(m.Chain)-1]
}

// Public reports whether any route on the chain is public.
func (m *Match) Public() bool {
	for _, r := range m.Chain {
		if r.Public {
			return true
		}
	}
	return false
}

// RequiredRoles returns the effective requirement for the matched route.
func (m *Match) RequiredRoles() []string {
	return EffectiveRoles(m.Chain)
}

// EffectiveRoles walks the chain root first and keeps the deepest non-empty
// role set. Requirements further up are overridden, never merged.
// An empty result means any authenticated role.
func EffectiveRoles(chain []*Route) []string {
	var roles []string
	for _, r := range chain {
		if declared := auth.NormalizeRoles(r.Data.Roles); len(declared) > 0 {
			roles = declared
		}
	}
	return roles
}

// RouteTable resolves paths against a route tree.
type RouteTable struct {
	routes []Route
}

type routeFile struct {
	Routes []Route `yaml:"routes"`
}

// LoadRouteTable reads a YAML route file.
func LoadRouteTable(path string) (*RouteTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	return ParseRouteTable(raw)
}

// ParseRouteTable decodes a YAML route document.
func ParseRouteTable(raw []byte) (*RouteTable, error) {
	var file routeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return NewRouteTable(file.Routes)
}

// NewRouteTable validates the tree and builds a table.
func NewRouteTable(routes []Route) (*RouteTable, error) {
	if err := validateRoutes(routes, "/"); err != nil {
		return nil, err
	}
	return &RouteTable{routes: routes}, nil
}

func validateRoutes(routes []Route, parent string) error {
	for _, r := range routes {
		segments := splitPath(r.Path)
		for i, seg := range segments {
			if seg == "**" && i != len(segments)-1 {
				return fmt.Errorf("route %q under %q: ** must be the last segment", r.Path, parent)
			}
			if seg == ":" {
				return fmt.Errorf("route %q under %q: unnamed parameter", r.Path, parent)
			}
		}
		if r.View == "" && len(r.Children) == 0 {
			return fmt.Errorf("route %q under %q has neither view nor children", r.Path, parent)
		}
		if err := validateRoutes(r.Children, strings.TrimSuffix(parent, "/")+"/"+r.Path); err != nil {
			return err
		}
	}
	return nil
}

// Match resolves path. Routes are tried in declaration order; the first full
// match wins.
func (t *RouteTable) Match(path string) (*Match, bool) {
	return matchIn(t.routes, splitPath(path), nil, map[string]string{})
}

func matchIn(routes []Route, segments []string, chain []*Route, params map[string]string) (*Match, bool) {
	for i := range routes {
		r := &routes[i]
		captured := copyParams(params)
		consumed, ok := matchSegments(splitPath(r.Path), segments, captured)
		if !ok {
			continue
		}
		next := append(chain[:len(chain):len(chain)], r)
		rest := segments[consumed:]
		if len(r.Children) > 0 {
			if m, ok := matchIn(r.Children, rest, next, captured); ok {
				return m, true
			}
		}
		if len(rest) == 0 && r.View != "" {
			return &Match{Chain: next, Params: captured}, true
		}
	}
	return nil, false
}

func matchSegments(pattern, segments []string, params map[string]string) (int, bool) {
	for i, p := range pattern {
		if p == "**" {
			params["**"] = strings.Join(segments[i:], "/")
			return len(segments), true
		}
		if i >= len(segments) {
			return 0, false
		}
		switch {
		case strings.HasPrefix(p, ":"):
			params[p[1:]] = segments[i]
		case p != segments[i]:
			return 0, false
		}
	}
	return len(pattern), true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func copyParams(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
