// Package profile decides which top-level windows belong to the managed
// browser-profile family and assembles them into a stable, time-ordered set.
package profile

import (
	"regexp"
	"strings"
)

// Facts are the externally observable signals classification runs on.
// Title text is the only reliable profile marker, so the rules are
// necessarily heuristic.
type Facts struct {
	Visible bool
	Title   string
	Class   string
}

// Verdict is the outcome of a single rule.
type Verdict int

const (
	// VerdictNext means the rule had no opinion; evaluation continues.
	VerdictNext Verdict = iota
	VerdictAccept
	VerdictReject
)

// Rule is one step of the ordered decision procedure. First non-Next
// verdict wins.
type Rule struct {
	Name   string
	Decide func(f Facts) Verdict
}

// Options configures the classifier. Zero-valued fields fall back to the
// built-in defaults.
type Options struct {
	// IncludeKeywords accept a window when the lower-cased title contains
	// any of them.
	IncludeKeywords []string
	// ExcludeKeywords reject a window when the lower-cased title contains
	// any of them. Checked before inclusion so a management app whose
	// title also carries an inclusion keyword stays excluded.
	ExcludeKeywords []string
	// TitlePattern is the fallback profile-name pattern (two uppercase
	// letters followed by digits, as a whole word).
	TitlePattern *regexp.Regexp
	// ClassSubstring must appear in the window class for a pattern-only
	// match to count, guarding against unrelated apps with short
	// alphanumeric titles.
	ClassSubstring string
}

// DefaultIncludeKeywords are the known profile-browser title markers.
func DefaultIncludeKeywords() []string {
	return []string{"whoerip", "whoer", "mimic"}
}

// DefaultExcludeKeywords name the profile-management application itself,
// which must never be tiled alongside the profiles it manages.
func DefaultExcludeKeywords() []string {
	return []string{"multilogin x app", "multilogin app"}
}

// DefaultTitlePattern matches operator-assigned short profile names like
// "US1" or "DE42".
var DefaultTitlePattern = regexp.MustCompile(`\b[A-Z]{2}\d+\b`)

// DefaultClassSubstring identifies the browser engine's top-level window
// class.
const DefaultClassSubstring = "chrome"

// Classifier is an ordered rule list deciding window membership.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the default rule chain from opts.
func NewClassifier(opts Options) *Classifier {
	include := opts.IncludeKeywords
	if include == nil {
		include = DefaultIncludeKeywords()
	}
	exclude := opts.ExcludeKeywords
	if exclude == nil {
		exclude = DefaultExcludeKeywords()
	}
	pattern := opts.TitlePattern
	if pattern == nil {
		pattern = DefaultTitlePattern
	}
	classSub := opts.ClassSubstring
	if classSub == "" {
		classSub = DefaultClassSubstring
	}

	rules := []Rule{
		{
			Name: "reject-invisible",
			Decide: func(f Facts) Verdict {
				if !f.Visible {
					return VerdictReject
				}
				return VerdictNext
			},
		},
		{
			Name: "reject-empty-title",
			Decide: func(f Facts) Verdict {
				if f.Title == "" {
					return VerdictReject
				}
				return VerdictNext
			},
		},
		{
			Name: "exclude-keywords",
			Decide: func(f Facts) Verdict {
				title := strings.ToLower(f.Title)
				for _, kw := range exclude {
					if strings.Contains(title, kw) {
						return VerdictReject
					}
				}
				return VerdictNext
			},
		},
		{
			Name: "include-keywords",
			Decide: func(f Facts) Verdict {
				title := strings.ToLower(f.Title)
				for _, kw := range include {
					if strings.Contains(title, kw) {
						return VerdictAccept
					}
				}
				return VerdictNext
			},
		},
		{
			Name: "pattern-and-class",
			Decide: func(f Facts) Verdict {
				if pattern.MatchString(f.Title) &&
					strings.Contains(strings.ToLower(f.Class), classSub) {
					return VerdictAccept
				}
				return VerdictNext
			},
		},
	}

	return &Classifier{rules: rules}
}

// Matches runs the rule chain; windows falling through every rule are
// rejected.
func (c *Classifier) Matches(f Facts) bool {
	for _, rule := range c.rules {
		switch rule.Decide(f) {
		case VerdictAccept:
			return true
		case VerdictReject:
			return false
		}
	}
	return false
}

// Explain returns the name of the rule that decided f, or "" when no rule
// fired (implicit rejection).
func (c *Classifier) Explain(f Facts) (rule string, accepted bool) {
	for _, r := range c.rules {
		switch r.Decide(f) {
		case VerdictAccept:
			return r.Name, true
		case VerdictReject:
			return r.Name, false
		}
	}
	return "", false
}
