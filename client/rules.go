package client

import "regexp"

// IgnorePattern matches cortile's IsIgnored/IsSpecial checks in
// store/client.go, which test a window's class/title against
// configured patterns before deciding to manage it.
type IgnorePattern struct {
	ClassPattern string
	TitlePattern string
}

// DefaultRules matches a window's class and title against its own Ignore
// list the way cortile's IsIgnored/IsSpecial do; nothing in this module
// fills that list from the settings store's window_ignore value. Kept on
// the standard library's regexp: no pack
// example wires a third-party pattern-matching library for this kind of
// rule (see DESIGN.md).
type DefaultRules struct {
	Ignore []IgnorePattern

	// DefaultTag, when non-empty, is returned as Changes.TagName for
	// every client that isn't explicitly ignored.
	DefaultTag string
}

func (r DefaultRules) Evaluate(_ ID, title, class string) Changes {
	for _, pat := range r.Ignore {
		if pat.ClassPattern != "" {
			if ok, _ := regexp.MatchString(pat.ClassPattern, class); ok {
				return Changes{Manage: false}
			}
		}
		if pat.TitlePattern != "" {
			if ok, _ := regexp.MatchString(pat.TitlePattern, title); ok {
				return Changes{Manage: false}
			}
		}
	}
	return Changes{
		Manage:  true,
		TagName: r.DefaultTag,
	}
}
