package validationerrors

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/m-mizutani/goerr/v2"
)

// MessageProvider maps a template key to localized text
type MessageProvider interface {
	Message(key string) (string, bool)
}

// universal-translator reserves {0}, {1}... for positional params and
// rejects other braces, so named placeholders are stored escaped.
var (
	escapeBraces   = strings.NewReplacer("{", "\uE000", "}", "\uE001")
	unescapeBraces = strings.NewReplacer("\uE000", "{", "\uE001", "}")
)

// TranslatorProvider serves messages from a universal-translator locale
type TranslatorProvider struct {
	trans ut.Translator
}

// NewTranslatorProvider builds an English translator holding messages,
// keyed by template.
func NewTranslatorProvider(messages map[string]string) (*TranslatorProvider, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	trans, ok := uni.GetTranslator(enLocale.Locale())
	if !ok {
		return nil, goerr.New("translator not found", goerr.V("locale", enLocale.Locale()))
	}

	for key, text := range messages {
		if err := trans.Add(key, escapeBraces.Replace(text), true); err != nil {
			return nil, goerr.Wrap(err, "failed to add translation", goerr.V("key", key))
		}
	}

	return &TranslatorProvider{trans: trans}, nil
}

func (p *TranslatorProvider) Message(key string) (string, bool) {
	text, err := p.trans.T(key)
	if err != nil {
		return "", false
	}
	return unescapeBraces.Replace(text), true
}
