// Package sanitizer provides named string filters applied to request
// parameters.
//
// Built-in filters:
//
//   - trim: strip surrounding whitespace
//   - strip_tags: remove all HTML, keep the text (bluemonday strict policy)
//   - safe_html: keep basic formatting tags, drop scripts and handlers
//   - escape: HTML-escape the value
//   - lower, upper: change case
//
// Filters are combined with a comma separated list:
//
//	f, err := sanitizer.Chain("trim,strip_tags")
//	clean := f("  <b>hi</b> ") // "hi"
package sanitizer
