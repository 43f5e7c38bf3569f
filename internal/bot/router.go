package bot

import (
	"context"
	"regexp"
	"strings"

	"cdrbot/internal/models"
)

// Request is what a route handler gets for one incoming message.
type Request struct {
	ChatID    int64
	FirstName string
	Text      string
	// Args holds the matcher's captures; Args[0] is the whole text.
	Args    []string
	Session *models.Session
}

// Arg returns capture i or "".
func (r *Request) Arg(i int) string {
	if i < len(r.Args) {
		return strings.TrimSpace(r.Args[i])
	}
	return ""
}

type Handler func(ctx context.Context, req *Request) error

// Matcher reports whether text selects a route and returns its captures.
type Matcher func(text string) ([]string, bool)

type Route struct {
	Name   string
	Match  Matcher
	Handle Handler
}

// Router dispatches to the first route whose matcher accepts the text.
type Router struct {
	routes []Route
}

func NewRouter(routes ...Route) *Router {
	return &Router{routes: routes}
}

func (r *Router) Add(route Route) {
	r.routes = append(r.routes, route)
}

func (r *Router) Dispatch(text string) (Route, []string, bool) {
	for _, route := range r.routes {
		if args, ok := route.Match(text); ok {
			return route, args, true
		}
	}
	return Route{}, nil, false
}

func (r *Router) Names() []string {
	names := make([]string, 0, len(r.routes))
	for _, route := range r.routes {
		names = append(names, route.Name)
	}
	return names
}

// Exact matches any of values, ignoring case and surrounding spaces.
func Exact(values ...string) Matcher {
	return func(text string) ([]string, bool) {
		t := strings.TrimSpace(text)
		for _, v := range values {
			if strings.EqualFold(t, v) {
				return []string{t}, true
			}
		}
		return nil, false
	}
}

// Regexp matches a single pattern and returns its submatches.
func Regexp(pattern string) Matcher {
	re := regexp.MustCompile(pattern)
	return func(text string) ([]string, bool) {
		m := re.FindStringSubmatch(strings.TrimSpace(text))
		return m, m != nil
	}
}

// Words matches when every pattern is found somewhere in the text, case-insensitively.
func Words(patterns ...string) Matcher {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile("(?i)"+p))
	}
	return func(text string) ([]string, bool) {
		if len(res) == 0 {
			return nil, false
		}
		for _, re := range res {
			if !re.MatchString(text) {
				return nil, false
			}
		}
		return []string{strings.TrimSpace(text)}, true
	}
}

// Any matches when one of matchers does.
func Any(matchers ...Matcher) Matcher {
	return func(text string) ([]string, bool) {
		for _, m := range matchers {
			if args, ok := m(text); ok {
				return args, true
			}
		}
		return nil, false
	}
}
