// Package htmlsanitize strips markup from provider-supplied profile fields.
// It uses bluemonday so usernames and profile URLs coming back from the OAuth
// provider can be stored and echoed into pages without escaping surprises.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for profile fields.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// Profile fields are plain strings; no markup survives.
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// StripMarkup removes all HTML from the input and trims surrounding
// whitespace. Returns the cleaned string.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(s))
}
