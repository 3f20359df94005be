package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Message IDs shared outside the auth greeting set.
const (
	OTPEmailSubject = "OTPEmailSubject"
)

type ctxKey struct{}

// Translator resolves message IDs against the embedded locale files.
type Translator struct {
	bundle        *goi18n.Bundle
	matcher       language.Matcher
	defaultLocale string
}

// New loads every file under locales/. defaultLocale is used when a request
// carries no usable Accept-Language.
func New(defaultLocale string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", e.Name(), err)
		}
	}

	tags := bundle.LanguageTags()
	if defaultLocale == "" {
		defaultLocale = language.English.String()
	}

	return &Translator{
		bundle:        bundle,
		matcher:       language.NewMatcher(tags),
		defaultLocale: defaultLocale,
	}, nil
}

// Match picks the supported locale closest to an Accept-Language header.
func (t *Translator) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLocale
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.defaultLocale
	}
	tag, _, conf := t.matcher.Match(prefs...)
	if conf == language.No {
		return t.defaultLocale
	}
	base, _ := tag.Base()
	return base.String()
}

// T translates messageID. Unknown IDs come back unchanged.
func (t *Translator) T(locale, messageID string, templateData ...map[string]any) string {
	l := goi18n.NewLocalizer(t.bundle, locale, t.defaultLocale)

	cfg := &goi18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext returns "" when no locale was attached.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
