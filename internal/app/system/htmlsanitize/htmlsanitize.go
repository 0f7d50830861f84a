// Package htmlsanitize strips dangerous markup from user-supplied rich
// text before it is stored. Profile free-text fields (about, family info,
// partner preferences) accept limited formatting from the editor.
package htmlsanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting tags (p, strong, em, lists, links) survive.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return sanitizer().Sanitize(s)
}

// StripAll removes all markup, returning plain text. Used for fields that
// must never contain HTML (names, cities, rejection reasons).
func StripAll(s string) string {
	if s == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(s)
}
