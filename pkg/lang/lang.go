package lang

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// maxAcceptLanguageLength caps the header size parsed.
const maxAcceptLanguageLength = 4096

// Packs holds language packs per language set.
type Packs struct {
	messages    map[string]map[string]string // langset -> key -> message
	loaded      map[string]struct{}          // langset + file
	modules     map[string]*Packs
	parent      *Packs
	defaultLang string
	allowed     []string
	detectVar   string
	cookieName  string
	mu          sync.RWMutex
}

// Option configures Packs.
type Option func(*Packs)

// WithDefault sets the fallback language set. Default: "en".
func WithDefault(lang string) Option {
	return func(p *Packs) {
		if lang != "" {
			p.defaultLang = Normalize(lang)
		}
	}
}

// WithAllowed restricts detection to the given language sets.
func WithAllowed(langs ...string) Option {
	return func(p *Packs) {
		for _, l := range langs {
			if l = Normalize(l); l != "" {
				p.allowed = append(p.allowed, l)
			}
		}
	}
}

// WithDetectVar sets the query variable used for detection. Default: "lang".
func WithDetectVar(name string) Option {
	return func(p *Packs) { p.detectVar = name }
}

// WithCookieName sets the cookie used for detection. Default: "lang".
func WithCookieName(name string) Option {
	return func(p *Packs) { p.cookieName = name }
}

// New creates empty language packs.
func New(opts ...Option) *Packs {
	p := &Packs{
		messages:    make(map[string]map[string]string),
		loaded:      make(map[string]struct{}),
		modules:     make(map[string]*Packs),
		defaultLang: "en",
		detectVar:   "lang",
		cookieName:  "lang",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Module returns the packs of a module, created on first use. Messages
// loaded into them are visible to that module only; keys they lack are
// looked up in p. An empty name returns p.
func (p *Packs) Module(name string) *Packs {
	if name == "" {
		return p
	}
	p.mu.RLock()
	m, ok := p.modules[name]
	p.mu.RUnlock()
	if ok {
		return m
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.modules[name]; ok {
		return m
	}
	m = &Packs{
		messages:    make(map[string]map[string]string),
		loaded:      make(map[string]struct{}),
		modules:     make(map[string]*Packs),
		parent:      p,
		defaultLang: p.defaultLang,
		allowed:     p.allowed,
		detectVar:   p.detectVar,
		cookieName:  p.cookieName,
	}
	p.modules[name] = m
	return m
}

// Default returns the fallback language set.
func (p *Packs) Default() string { return p.defaultLang }

// Detect returns the language set requested by r, or the default.
func (p *Packs) Detect(r *http.Request) string {
	if p.detectVar != "" {
		if v := r.URL.Query().Get(p.detectVar); v != "" {
			if set, ok := p.accept(v); ok {
				return set
			}
		}
	}
	if p.cookieName != "" {
		if c, err := r.Cookie(p.cookieName); err == nil && c.Value != "" {
			if set, ok := p.accept(c.Value); ok {
				return set
			}
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		if set, ok := p.matchHeader(header); ok {
			return set
		}
	}
	return p.defaultLang
}

// Range normalizes lang into a language set, falling back to the default
// for empty or disallowed values.
func (p *Packs) Range(lang string) string {
	if set, ok := p.accept(lang); ok {
		return set
	}
	return p.defaultLang
}

// Load reads language pack files for a language set. Each file is loaded at
// most once; missing files are skipped.
func (p *Packs) Load(fsys fs.FS, langset string, files ...string) error {
	for _, name := range files {
		key := langset + "\x00" + name

		p.mu.RLock()
		_, done := p.loaded[key]
		p.mu.RUnlock()
		if done {
			continue
		}

		msgs, err := readPack(fsys, name)
		if err != nil {
			return err
		}

		p.mu.Lock()
		p.loaded[key] = struct{}{}
		if msgs != nil {
			set, ok := p.messages[langset]
			if !ok {
				set = make(map[string]string, len(msgs))
				p.messages[langset] = set
			}
			for k, v := range msgs {
				set[k] = v
			}
		}
		p.mu.Unlock()
	}
	return nil
}

// Has reports whether key is defined for the language set.
func (p *Packs) Has(langset, key string) bool {
	_, ok := p.lookup(langset, key)
	return ok
}

// Get returns the message for key with {name} placeholders replaced.
// Unknown keys return the key itself.
func (p *Packs) Get(langset, key string, args map[string]any) string {
	msg, ok := p.lookup(langset, key)
	if !ok {
		return key
	}
	for name, v := range args {
		msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprint(v))
	}
	return msg
}

func (p *Packs) lookup(langset, key string) (string, bool) {
	p.mu.RLock()
	msg, ok := p.messages[langset][key]
	p.mu.RUnlock()
	if !ok && p.parent != nil {
		return p.parent.lookup(langset, key)
	}
	return msg, ok
}

func (p *Packs) accept(lang string) (string, bool) {
	set := Normalize(lang)
	if set == "" {
		return "", false
	}
	if len(p.allowed) == 0 {
		return set, true
	}
	for _, a := range p.allowed {
		if a == set {
			return set, true
		}
	}
	return "", false
}

func (p *Packs) matchHeader(header string) (string, bool) {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	if len(p.allowed) == 0 {
		return Normalize(tags[0].String()), true
	}

	supported := make([]language.Tag, 0, len(p.allowed))
	for _, a := range p.allowed {
		supported = append(supported, language.Make(a))
	}
	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No {
		return "", false
	}
	return p.allowed[idx], true
}

// Normalize turns a language tag into the lower-case language set form,
// e.g. "zh_CN" -> "zh-cn". Invalid tags yield "".
func Normalize(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return ""
	}
	return strings.ToLower(tag.String())
}

func readPack(fsys fs.FS, name string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParsePack, name, err)
	}

	out := make(map[string]string)
	flatten(out, "", raw)
	return out, nil
}

func flatten(dst map[string]string, prefix string, src map[string]any) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(dst, key, nested)
			continue
		}
		dst[key] = fmt.Sprint(v)
	}
}
