package html

import (
	stdhtml "html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultBgColor is used for sections without a usable background colour.
const DefaultBgColor = "#f0f0f0"

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	richPolicyOnce sync.Once
	richPolicy     *bluemonday.Policy

	cssColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,4}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]{3,20}|(rgb|rgba|hsl|hsla)\(\s*[0-9.%\s,/]+\))$`)
)

// plainText strips all markup from labels and titles. The template escapes
// the result again on output.
func plainText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(stdhtml.UnescapeString(textPolicy.Sanitize(raw)))
}

// richText keeps the inline markup tooltips are allowed to carry.
func richText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	richPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "br", "code", "small")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		richPolicy = policy
	})
	return strings.TrimSpace(richPolicy.Sanitize(trimmed))
}

// sectionColor returns raw when it is a plain CSS colour value and the
// default otherwise, so the value can be placed in a style attribute.
func sectionColor(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !cssColor.MatchString(trimmed) {
		return DefaultBgColor
	}
	return trimmed
}
