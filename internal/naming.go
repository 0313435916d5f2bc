package internal

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Module, controller and action names accepted from a request.
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

func validIdent(s string) bool {
	return identPattern.MatchString(s)
}

// validController accepts dotted names such as "admin.user".
func validController(s string) bool {
	if s == "" {
		return false
	}
	for part := range strings.SplitSeq(s, ".") {
		if !validIdent(part) {
			return false
		}
	}
	return true
}

// foldName case-folds a module name.
func foldName(s string) string {
	return cases.Fold().String(s)
}

// camel converts "user_profile" to "UserProfile". Each dotted part is
// converted on its own, so "admin.user_list" becomes "Admin.UserList".
func camel(s string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(s, ".")
	for i, part := range parts {
		var b strings.Builder
		for word := range strings.SplitSeq(part, "_") {
			b.WriteString(caser.String(word))
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ".")
}
