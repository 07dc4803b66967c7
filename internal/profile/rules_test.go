package profile

import (
	"regexp"
	"testing"
)

func TestClassifier_IncludeKeywordAccepts(t *testing.T) {
	c := NewClassifier(Options{})
	cases := []string{
		"Whoer.net - VPN check",
		"WHOERIP dashboard",
		"Mimic Browser - US3",
	}
	for _, title := range cases {
		f := Facts{Visible: true, Title: title, Class: "some-app"}
		if !c.Matches(f) {
			t.Errorf("expected %q to be accepted", title)
		}
	}
}

func TestClassifier_ExcludeBeatsInclude(t *testing.T) {
	c := NewClassifier(Options{})
	// The management app title contains an inclusion keyword substring but
	// must stay excluded.
	f := Facts{Visible: true, Title: "Multilogin X App - mimic profiles", Class: "chrome_widgetwin"}
	if c.Matches(f) {
		t.Fatalf("expected management app window to be rejected")
	}
	rule, accepted := c.Explain(f)
	if accepted || rule != "exclude-keywords" {
		t.Fatalf("expected exclude-keywords rejection, got rule=%q accepted=%v", rule, accepted)
	}
}

func TestClassifier_PatternRequiresBrowserClass(t *testing.T) {
	c := NewClassifier(Options{})

	browser := Facts{Visible: true, Title: "US1 - New Tab", Class: "Chrome_WidgetWin_1"}
	if !c.Matches(browser) {
		t.Fatalf("expected pattern match with browser class to be accepted")
	}

	editor := Facts{Visible: true, Title: "US1 notes.txt", Class: "gedit"}
	if c.Matches(editor) {
		t.Fatalf("expected pattern match without browser class to be rejected")
	}
}

func TestClassifier_PatternIsWholeWord(t *testing.T) {
	c := NewClassifier(Options{})
	f := Facts{Visible: true, Title: "ABC123 report", Class: "Chrome_WidgetWin_1"}
	if c.Matches(f) {
		t.Fatalf("expected three-letter prefix not to match the profile pattern")
	}
}

func TestClassifier_InvisibleRejected(t *testing.T) {
	c := NewClassifier(Options{})
	f := Facts{Visible: false, Title: "whoer profile", Class: "chrome"}
	if c.Matches(f) {
		t.Fatalf("expected invisible window to be rejected")
	}
}

func TestClassifier_EmptyTitleRejected(t *testing.T) {
	c := NewClassifier(Options{})
	f := Facts{Visible: true, Title: "", Class: "Chrome_WidgetWin_1"}
	if c.Matches(f) {
		t.Fatalf("expected empty title to be rejected")
	}
	rule, _ := c.Explain(f)
	if rule != "reject-empty-title" {
		t.Fatalf("expected reject-empty-title, got %q", rule)
	}
}

func TestClassifier_NoRuleFiresRejects(t *testing.T) {
	c := NewClassifier(Options{})
	f := Facts{Visible: true, Title: "Some unrelated window", Class: "firefox"}
	if c.Matches(f) {
		t.Fatalf("expected fall-through to reject")
	}
	rule, accepted := c.Explain(f)
	if rule != "" || accepted {
		t.Fatalf("expected implicit rejection, got rule=%q accepted=%v", rule, accepted)
	}
}

func TestClassifier_CustomOptions(t *testing.T) {
	c := NewClassifier(Options{
		IncludeKeywords: []string{"proxyfox"},
		ExcludeKeywords: []string{"proxyfox manager"},
		TitlePattern:    regexp.MustCompile(`\bP\d+\b`),
		ClassSubstring:  "firefox",
	})

	if !c.Matches(Facts{Visible: true, Title: "ProxyFox session 2", Class: "x"}) {
		t.Fatalf("expected custom include keyword to accept")
	}
	if c.Matches(Facts{Visible: true, Title: "ProxyFox Manager", Class: "x"}) {
		t.Fatalf("expected custom exclude keyword to reject")
	}
	if !c.Matches(Facts{Visible: true, Title: "P7 - browsing", Class: "Firefox-esr"}) {
		t.Fatalf("expected custom pattern+class to accept")
	}
	if c.Matches(Facts{Visible: true, Title: "US1 - New Tab", Class: "Chrome_WidgetWin_1"}) {
		t.Fatalf("expected default pattern to be replaced by custom one")
	}
}
