package website

import (
	"net/url"
	"strings"
)

// excludedFragments disqualify a discovered link when its lowercased
// absolute URL contains any of them.
var excludedFragments = []string{
	"#", "javascript:", "mailto:", "tel:",
	".pdf", ".jpg", ".png", ".gif", ".css", ".js",
	"login", "register", "admin", "wp-admin",
}

// resolve turns href into an absolute URL relative to base.
func resolve(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	return base.ResolveReference(ref), true
}

// eligible reports whether a discovered link may be enqueued.
// Duplicate detection is exact string equality on the result of
// u.String(); no further normalisation is applied.
func eligible(u *url.URL, host string) bool {
	if u.Host != host {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	lower := strings.ToLower(u.String())
	for _, frag := range excludedFragments {
		if strings.Contains(lower, frag) {
			return false
		}
	}
	return true
}
