// Package i18n holds the static UI strings, the supported languages and the
// client that translates strings on the fly.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

// Default is the language the string tables are written in.
const Default = "en"

// Language is a selectable UI language.
type Language struct {
	Code string
	Name string
}

// Languages lists the selectable languages, default first.
var Languages = []Language{
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"zh-cn", "Chinese (Simplified)"},
	{"ar", "Arabic"},
	{"ru", "Russian"},
	{"ja", "Japanese"},
	{"hi", "Hindi"},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(Languages))
	for i, l := range Languages {
		tags[i] = language.Make(l.Code)
	}
	return language.NewMatcher(tags)
}()

// Supported reports whether code is a selectable language.
func Supported(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Normalize returns code if it is supported and Default otherwise.
func Normalize(code string) string {
	if Supported(code) {
		return code
	}
	return Default
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return Default
	}
	return Languages[idx].Code
}

type langKey struct{}

// WithLanguage returns a context carrying the resolved UI language.
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, langKey{}, code)
}

// FromContext returns the UI language stored in ctx, or Default.
func FromContext(ctx context.Context) string {
	if code, ok := ctx.Value(langKey{}).(string); ok && code != "" {
		return code
	}
	return Default
}
