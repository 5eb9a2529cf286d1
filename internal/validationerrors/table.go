package validationerrors

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"clipo/clipoterm/internal/forms"
)

// GeneralContext is the context every lookup falls back to
const GeneralContext = "GENERAL"

// Contexts used by the account forms
const (
	SignupContext = "SIGNUP"
	LoginContext  = "LOGIN"
)

// MessageTable maps context -> error code -> message template. Templates
// may reference error params as {name}.
type MessageTable map[string]map[string]string

// DefaultMessages returns a fresh copy of the built-in table
func DefaultMessages() MessageTable {
	return MessageTable{
		GeneralContext: {
			forms.CodeRequired:        "This field is required",
			forms.CodeEmail:           "Must be a valid email address",
			forms.CodeInvalidPassword: "Password must be at least {requiredLength} characters long, and contain a number.",
			forms.CodeMinLength:       "Minimum length {requiredLength}",
			forms.CodeMaxLength:       "Maximum length {requiredLength}",
			forms.CodePattern:         "Invalid format",
			forms.CodeMismatch:        "Must match {field}",
			forms.CodeMinItems:        "Add at least {requiredItems}",
			forms.CodeMaxItems:        "No more than {requiredItems} allowed",
			forms.CodeDuplicate:       "{value} is listed more than once",
			"emailTaken":              "An account with this email already exists",
			"invalidCredentials":      "Incorrect email or password",
			"notActivated":            "This account has not been activated yet",
			"unknownAccount":          "No account is registered with this email",
			"invalidActivationKey":    "Activation key is invalid or already used",
		},
		SignupContext: {
			forms.CodeEmail:           "Enter the email address you will sign in with",
			forms.CodeInvalidPassword: "Choose a password of at least {requiredLength} characters with a number",
		},
		LoginContext: {
			forms.CodeRequired: "Required to sign in",
		},
	}
}

// Lookup returns the template for code in context without any fallback
func (t MessageTable) Lookup(context, code string) (string, bool) {
	codes, ok := t[context]
	if !ok {
		return "", false
	}
	tmpl, ok := codes[code]
	return tmpl, ok
}

func (t MessageTable) Clone() MessageTable {
	clone := make(MessageTable, len(t))
	for context, codes := range t {
		inner := make(map[string]string, len(codes))
		for code, tmpl := range codes {
			inner[code] = tmpl
		}
		clone[context] = inner
	}
	return clone
}

// Merge returns a copy of t with every template in overlay applied on top.
// Contexts and codes missing from overlay are kept.
func (t MessageTable) Merge(overlay MessageTable) MessageTable {
	merged := t.Clone()
	for context, codes := range overlay {
		if merged[context] == nil {
			merged[context] = make(map[string]string, len(codes))
		}
		for code, tmpl := range codes {
			merged[context][code] = tmpl
		}
	}
	return merged
}

// ParseMessageTable decodes a table in "toml" or "yaml" format
func ParseMessageTable(data []byte, format string) (MessageTable, error) {
	var table MessageTable
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, goerr.Wrap(ErrInvalidMessages, "failed to decode toml", goerr.V("cause", err.Error()))
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, goerr.Wrap(ErrInvalidMessages, "failed to decode yaml", goerr.V("cause", err.Error()))
		}
	default:
		return nil, goerr.Wrap(ErrInvalidMessages, "unsupported format", goerr.V("format", format))
	}

	for context, codes := range table {
		if context == "" {
			return nil, goerr.Wrap(ErrInvalidMessages, "empty context name")
		}
		for code := range codes {
			if code == "" {
				return nil, goerr.Wrap(ErrInvalidMessages, "empty error code", goerr.V("context", context))
			}
		}
	}
	return table, nil
}

// LoadMessageTable reads a table file; the extension selects the format
func LoadMessageTable(path string) (MessageTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read message table", goerr.V(PathKey, path))
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	table, err := ParseMessageTable(data, format)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load message table", goerr.V(PathKey, path))
	}
	return table, nil
}
