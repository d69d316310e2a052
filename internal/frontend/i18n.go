package frontend

import (
	"embed"
	"fmt"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localesFS embed.FS

const (
	LocaleCookie  = "locale"
	DefaultLocale = "ja"
)

// Locales lists the supported languages; the first one is the fallback.
var Locales = []string{"ja", "en"}

// Translator owns the message bundle and picks the locale for a request.
type Translator struct {
	bundle  *i18n.Bundle
	matcher language.Matcher
}

func NewTranslator() (*Translator, error) {
	bundle := i18n.NewBundle(language.Japanese)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale directory: %w", err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localesFS, "locales/"+file.Name()); err != nil {
			return nil, fmt.Errorf("failed to load message file %s: %w", file.Name(), err)
		}
	}

	tags := make([]language.Tag, len(Locales))
	for i, l := range Locales {
		tags[i] = language.Make(l)
	}
	return &Translator{bundle: bundle, matcher: language.NewMatcher(tags)}, nil
}

// IsLocale reports whether l is one of the supported locales.
func IsLocale(l string) bool {
	return slice.Contain(Locales, l)
}

// Detect picks the locale from the locale cookie, then Accept-Language,
// falling back to DefaultLocale.
func (t *Translator) Detect(cookie, acceptLanguage string) string {
	if IsLocale(cookie) {
		return cookie
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return Locales[index]
}

// Messages returns a localizer bound to locale.
func (t *Translator) Messages(locale string) *Messages {
	return &Messages{Locale: locale, localizer: i18n.NewLocalizer(t.bundle, locale)}
}

// Messages looks up translated strings for a single locale. Unknown ids
// render as the id itself.
type Messages struct {
	Locale    string
	localizer *i18n.Localizer
}

func (m *Messages) T(id string) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}

// N renders a plural message with {{.Count}} set to count.
func (m *Messages) N(id string, count int64) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		return id
	}
	return msg
}
