package route

import (
	"strings"
	"sync"

	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/hostrouter"
)

// Request is the part of a request the table needs.
type Request interface {
	Host() string
	Method() string
}

// Match is the result of a successful rule check.
type Match struct {
	Descriptor dispatch.Descriptor
	Vars       map[string]string
	Bind       string
	Rule       Rule
}

// Table is an ordered rule set. The first matching rule wins.
type Table struct {
	global  []*compiled
	domains *hostrouter.Table[[]*compiled]
	rules   []Rule
	root    string
	mu      sync.RWMutex
}

// New creates an empty table.
func New() *Table {
	return &Table{domains: hostrouter.NewTable[[]*compiled]()}
}

// Add appends a single rule.
func (t *Table) Add(r Rule) error {
	return t.Import([]Rule{r})
}

// Import appends rules in order. Either all rules are added or, on the
// first invalid rule, none.
func (t *Table) Import(rules []Rule) error {
	built := make([]*compiled, 0, len(rules))
	for _, r := range rules {
		c, err := compile(r)
		if err != nil {
			return err
		}
		built = append(built, c)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range built {
		t.rules = append(t.rules, c.rule)
		if c.rule.Domain == "" {
			t.global = append(t.global, c)
			continue
		}
		list, _ := t.domains.Get(c.rule.Domain)
		t.domains.Set(c.rule.Domain, append(list, c))
	}
	return nil
}

// Rules returns the rules in insertion order.
func (t *Table) Rules() []Rule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rules)
}

// Reset drops all rules.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.global = nil
	t.rules = nil
	t.domains = hostrouter.NewTable[[]*compiled]()
}

// SetDomainRoot sets the root domain that subdomain rules hang off. With
// root "example.com", a rule for domain "blog" serves blog.example.com and
// a rule for "*" serves any other subdomain.
func (t *Table) SetDomainRoot(root string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = root
}

// Check matches path against the rules. With domainDeploy, the rules of
// the request host are tried before the global ones.
func (t *Table) Check(req Request, path, depr string, domainDeploy bool) (*Match, bool) {
	parts := Split(path, depr)

	t.mu.RLock()
	defer t.mu.RUnlock()

	if domainDeploy {
		if list, ok := t.hostRules(req.Host()); ok {
			if m, ok := first(list, req, parts); ok {
				return m, true
			}
		}
	}
	return first(t.global, req, parts)
}

// hostRules returns the rules of a host: full host patterns first, then
// subdomain rules under the domain root.
func (t *Table) hostRules(host string) ([]*compiled, bool) {
	if list, ok := t.domains.Lookup(host); ok {
		return list, true
	}
	sub := hostrouter.Subdomain(host, t.root)
	if sub == "" {
		return nil, false
	}
	if list, ok := t.domains.Get(sub); ok {
		return list, true
	}
	return t.domains.Get("*")
}

func first(list []*compiled, req Request, parts []string) (*Match, bool) {
	for _, c := range list {
		if !c.allows(req.Method()) {
			continue
		}
		vars, ok := c.match(parts)
		if !ok {
			continue
		}
		return &Match{
			Descriptor: c.descriptor(vars),
			Vars:       vars,
			Bind:       c.rule.Bind,
			Rule:       c.rule,
		}, true
	}
	return nil, false
}

// Split trims and splits a path on depr. An empty path yields no segments.
func Split(path, depr string) []string {
	if depr == "" {
		depr = "/"
	}
	path = strings.Trim(strings.TrimSpace(path), "/")
	if depr != "/" {
		path = strings.Trim(path, depr)
	}
	if path == "" {
		return nil
	}
	return strings.Split(path, depr)
}
