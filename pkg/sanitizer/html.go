package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// StripTags removes all HTML and returns plain text.
func StripTags(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SafeHTML keeps basic formatting tags and links, and strips scripts,
// event handlers and javascript: URLs.
func SafeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// Policy adapts a custom bluemonday policy into a Filter.
// A nil policy yields the identity filter.
func Policy(p *bluemonday.Policy) Filter {
	if p == nil {
		return func(s string) string { return s }
	}
	return p.Sanitize
}
