package route

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/dispatch"
)

// Rule maps a path pattern to a dispatch target.
type Rule struct {
	Pattern string `yaml:"pattern" json:"pattern"`

	// Targets, exactly one must be set.
	Route      string `yaml:"route,omitempty" json:"route,omitempty"`
	Controller string `yaml:"controller,omitempty" json:"controller,omitempty"`
	Redirect   string `yaml:"redirect,omitempty" json:"redirect,omitempty"`
	Handler    any    `yaml:"-" json:"-"`
	Callable   any    `yaml:"-" json:"-"`

	Status   int               `yaml:"status,omitempty" json:"status,omitempty"`
	Method   string            `yaml:"method,omitempty" json:"method,omitempty"`
	Bind     string            `yaml:"bind,omitempty" json:"bind,omitempty"`
	Domain   string            `yaml:"domain,omitempty" json:"domain,omitempty"`
	Patterns map[string]string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Convert  *bool             `yaml:"convert,omitempty" json:"convert,omitempty"`
}

type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segCapture
	segOptional
)

type segment struct {
	kind  segmentKind
	value string // literal text or var name
}

type compiled struct {
	rule     Rule
	segments []segment
	complete bool
	methods  []string
	checks   map[string]*regexp.Regexp
	names    []string // capture names, longest first
}

func compile(r Rule) (*compiled, error) {
	pattern := strings.TrimSpace(r.Pattern)
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	if err := checkTargets(r); err != nil {
		return nil, err
	}

	c := &compiled{rule: r}
	if strings.HasSuffix(pattern, "$") {
		c.complete = true
		pattern = strings.TrimSuffix(pattern, "$")
	}

	pattern = strings.Trim(pattern, "/")
	if pattern != "" {
		for raw := range strings.SplitSeq(pattern, "/") {
			seg, err := parseSegment(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, r.Pattern, err)
			}
			if len(c.segments) > 0 && c.segments[len(c.segments)-1].kind == segOptional && seg.kind != segOptional {
				return nil, fmt.Errorf("%w: %q: optional segment must be trailing", ErrInvalidPattern, r.Pattern)
			}
			c.segments = append(c.segments, seg)
			if seg.kind != segLiteral {
				c.names = append(c.names, seg.value)
			}
		}
	}
	slices.SortFunc(c.names, func(a, b string) int { return len(b) - len(a) })

	if m := strings.TrimSpace(r.Method); m != "" && m != "*" {
		for part := range strings.SplitSeq(m, "|") {
			if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
				c.methods = append(c.methods, part)
			}
		}
	}

	if len(r.Patterns) > 0 {
		c.checks = make(map[string]*regexp.Regexp, len(r.Patterns))
		for name, expr := range r.Patterns {
			re, err := regexp.Compile(`^(?:` + expr + `)$`)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: var %q: %w", ErrInvalidPattern, r.Pattern, name, err)
			}
			c.checks[name] = re
		}
	}

	return c, nil
}

func checkTargets(r Rule) error {
	n := 0
	for _, set := range []bool{r.Route != "", r.Controller != "", r.Redirect != "", r.Handler != nil, r.Callable != nil} {
		if set {
			n++
		}
	}
	switch n {
	case 0:
		return ErrNoTarget
	case 1:
		return nil
	default:
		return ErrMultipleTargets
	}
}

func parseSegment(raw string) (segment, error) {
	switch {
	case strings.HasPrefix(raw, "[:") && strings.HasSuffix(raw, "]"):
		name := raw[2 : len(raw)-1]
		if !validName(name) {
			return segment{}, fmt.Errorf("bad var name %q", name)
		}
		return segment{kind: segOptional, value: name}, nil
	case strings.HasPrefix(raw, ":"):
		name := raw[1:]
		if !validName(name) {
			return segment{}, fmt.Errorf("bad var name %q", name)
		}
		return segment{kind: segCapture, value: name}, nil
	case raw == "":
		return segment{}, fmt.Errorf("empty segment")
	default:
		return segment{kind: segLiteral, value: raw}, nil
	}
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (c *compiled) allows(method string) bool {
	if len(c.methods) == 0 {
		return true
	}
	return slices.Contains(c.methods, strings.ToUpper(method))
}

// match returns the vars captured from parts, or false.
func (c *compiled) match(parts []string) (map[string]string, bool) {
	vars := make(map[string]string)
	i := 0
	for _, seg := range c.segments {
		if i >= len(parts) {
			if seg.kind == segOptional {
				continue
			}
			return nil, false
		}
		switch seg.kind {
		case segLiteral:
			if parts[i] != seg.value {
				return nil, false
			}
		default:
			if re, ok := c.checks[seg.value]; ok && !re.MatchString(parts[i]) {
				return nil, false
			}
			vars[seg.value] = parts[i]
		}
		i++
	}

	rest := parts[i:]
	if c.complete && len(rest) > 0 {
		return nil, false
	}
	for j := 0; j+1 < len(rest); j += 2 {
		if _, taken := vars[rest[j]]; !taken {
			vars[rest[j]] = rest[j+1]
		}
	}
	return vars, true
}

func (c *compiled) descriptor(vars map[string]string) dispatch.Descriptor {
	r := c.rule
	switch {
	case r.Route != "":
		return dispatch.Module{Path: dispatch.ParsePath(c.expand(r.Route, vars)), Convert: r.Convert}
	case r.Controller != "":
		return dispatch.Controller{Name: c.expand(r.Controller, vars), Vars: toAny(vars)}
	case r.Redirect != "":
		return dispatch.Redirect{URL: c.expand(r.Redirect, vars), Status: r.Status}
	case r.Callable != nil:
		return dispatch.Method{Callable: r.Callable, Vars: toAny(vars)}
	default:
		return dispatch.Function{Callable: r.Handler}
	}
}

func (c *compiled) expand(tmpl string, vars map[string]string) string {
	for _, name := range c.names {
		if v, ok := vars[name]; ok {
			tmpl = strings.ReplaceAll(tmpl, ":"+name, v)
		}
	}
	return tmpl
}

func toAny(vars map[string]string) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
