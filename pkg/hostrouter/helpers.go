package hostrouter

import (
	"net/http"
	"strings"
)

// GetDomain returns the request host without port, lower-cased.
// IPv6 literals keep their brackets: "[::1]:8080" -> "[::1]".
func GetDomain(r *http.Request) string {
	return normalizeHost(r.Host)
}

// Subdomain returns the part of host in front of root, e.g. "blog" for
// host "blog.example.com:8080" and root "example.com". It returns "" when
// host is root itself or lies outside it.
func Subdomain(host, root string) string {
	host = normalizeHost(host)
	root = strings.Trim(strings.ToLower(root), ".")
	if root == "" || host == root {
		return ""
	}
	sub, ok := strings.CutSuffix(host, "."+root)
	if !ok {
		return ""
	}
	return sub
}
