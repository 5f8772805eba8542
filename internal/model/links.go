package model

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// LinkLabel shortens a profile URL for display ("https://www.github.com/jd/"
// becomes "github.com/jd"). Values without a registrable domain are returned
// trimmed but otherwise untouched.
func LinkLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	probe := raw
	if !strings.Contains(probe, "://") {
		probe = "https://" + probe
	}
	u, err := url.Parse(probe)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	host := strings.ToLower(u.Hostname())
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return raw
	}
	host = strings.TrimPrefix(host, "www.")
	return host + strings.TrimRight(u.EscapedPath(), "/")
}

// LinkHref returns an absolute URL for a profile link.
func LinkHref(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") || strings.HasPrefix(raw, "mailto:") {
		return raw
	}
	return "https://" + raw
}
