package spamlists

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var (
	schemeRe   = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)
	hostnameRe = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)*[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
)

// IsValidURL reports whether the value is a syntactically valid absolute URL
// with a scheme, a hostname or IP address authority, an optional port, and
// optional path, query, and fragment components.
func IsValidURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	if !schemeRe.MatchString(u.Scheme) || u.Host == "" {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	return net.ParseIP(host) != nil || isValidHostname(host)
}

// IsValidHost reports whether the value is a syntactically valid hostname or
// an IP address literal.
func IsValidHost(value string) bool {
	return net.ParseIP(value) != nil || isValidHostname(value)
}

// isValidHostname validates a DNS-style name. Unicode names are accepted and
// checked in their IDNA ASCII form.
func isValidHostname(value string) bool {
	value = strings.ToLower(strings.TrimSuffix(value, "."))
	if value == "" || len(value) > 253 {
		return false
	}
	if ascii, err := idna.Lookup.ToASCII(value); err == nil {
		value = ascii
	}
	return hostnameRe.MatchString(value)
}
