// Package filter turns raw OCR text into canonical @username tokens.
//
// The filter is pure and deterministic: identical input text always yields
// the same usernames in the same order, regardless of which OCR engine
// produced the text.
package filter

import (
	"strings"
)

// tldSuffixes rejects tokens that are really domains: a handle whose
// post-@ text ends in one of these is treated as OCR noise, not a username.
var tldSuffixes = []string{
	".com", ".org", ".net", ".edu", ".gov", ".mil", ".int", ".biz", ".info", ".name",
}

// emailProviders rejects bare provider handles ("@gmail") that OCR produces
// when an email address is split across fragments. "gmall" is included
// because OCR consistently returns it for "gmail".
var emailProviders = []string{
	"aol", "gmail", "gmall", "hotmail", "icloud", "outlook", "proton", "yahoo",
}

var providerSet = buildProviderSet()

func buildProviderSet() map[string]struct{} {
	set := make(map[string]struct{}, len(emailProviders)*3)
	for _, p := range emailProviders {
		set[p] = struct{}{}
		if p == "proton" {
			set["protonme"] = struct{}{}
			set["proton.me"] = struct{}{}
			continue
		}
		set[p+"com"] = struct{}{}
		set[p+".com"] = struct{}{}
	}
	return set
}

// Normalize extracts canonical @usernames from raw text fragments.
// The result is deduplicated and preserves first-seen order.
func Normalize(fragments []string) []string {
	seen := make(map[string]struct{})
	var usernames []string

	for _, fragment := range fragments {
		for _, token := range strings.Fields(fragment) {
			username, ok := normalizeToken(token)
			if !ok {
				continue
			}
			if _, dup := seen[username]; dup {
				continue
			}
			seen[username] = struct{}{}
			usernames = append(usernames, username)
		}
	}

	return usernames
}

// normalizeToken validates a single whitespace-delimited candidate token and
// returns its canonical @username form.
func normalizeToken(token string) (string, bool) {
	if !strings.ContainsRune(token, '@') {
		return "", false
	}

	// Strip surrounding punctuation, keeping the leading @ and identifier
	// characters intact.
	token = strings.TrimLeftFunc(token, func(r rune) bool {
		return r != '@' && !isIdentRune(r)
	})
	token = strings.TrimRightFunc(token, func(r rune) bool {
		return !isIdentRune(r)
	})
	// A trailing dot is sentence punctuation, not part of the handle.
	token = strings.TrimRight(token, ".")

	at := strings.IndexByte(token, '@')
	if at < 0 {
		return "", false
	}

	local, handle := token[:at], token[at+1:]
	if handle == "" || !isIdentifier(handle) {
		return "", false
	}

	// local@domain.tld is an email address, not a username.
	if local != "" && strings.Contains(handle, ".") {
		return "", false
	}

	lower := strings.ToLower(handle)
	for _, suffix := range tldSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "", false
		}
	}
	if _, isProvider := providerSet[lower]; isProvider {
		return "", false
	}

	return "@" + handle, true
}

func isIdentifier(s string) bool {
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.':
		return true
	}
	return false
}
