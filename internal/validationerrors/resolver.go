package validationerrors

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"sync"

	"clipo/clipoterm/internal/forms"
	"clipo/clipoterm/internal/logging"
)

var placeholderRegexp = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Resolver turns an active error into a display string
type Resolver struct {
	table    MessageTable
	priority []string
	provider MessageProvider
	logger   *slog.Logger

	mu     sync.Mutex
	warned map[string]struct{}
}

type ResolverOption func(*Resolver)

// WithPriority sets the order in which simultaneous errors are considered.
// Codes not listed come after the listed ones, in insertion order.
func WithPriority(codes ...string) ResolverOption {
	return func(r *Resolver) {
		r.priority = append([]string(nil), codes...)
	}
}

// WithProvider translates templates before placeholders are filled
func WithProvider(p MessageProvider) ResolverOption {
	return func(r *Resolver) {
		r.provider = p
	}
}

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(table MessageTable, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		table:  table.Clone(),
		warned: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pick chooses the single error to display
func (r *Resolver) Pick(errs forms.Errors) (forms.ValidationError, bool) {
	if len(errs) == 0 {
		return forms.ValidationError{}, false
	}
	for _, code := range r.priority {
		if params, ok := errs.Get(code); ok {
			return forms.ValidationError{Code: code, Params: params}, true
		}
	}
	return errs[0], true
}

// Message picks one error from errs and resolves it in context
func (r *Resolver) Message(errs forms.Errors, context string) (string, bool) {
	ve, ok := r.Pick(errs)
	if !ok {
		return "", false
	}
	return r.Resolve(ve.Code, ve.Params, context)
}

// Resolve returns the message for code in context, falling back to the
// GENERAL table. A code with no template anywhere resolves to nothing
// rather than leaking the raw code to the user; the gap is logged once.
func (r *Resolver) Resolve(code string, params forms.ErrorParams, context string) (string, bool) {
	tmpl, ok := r.table.Lookup(context, code)
	if !ok {
		tmpl, ok = r.table.Lookup(GeneralContext, code)
	}
	if !ok {
		r.warnUnresolved(code, context)
		return "", false
	}

	if r.provider != nil {
		if translated, found := r.provider.Message(tmpl); found {
			tmpl = translated
		}
	}
	return Interpolate(tmpl, params), true
}

// Interpolate fills {name} placeholders from params. Missing or nil params
// render as an empty string.
func Interpolate(tmpl string, params forms.ErrorParams) string {
	return placeholderRegexp.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := params[name]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// Codes returns every code with a template in context or GENERAL
func (r *Resolver) Codes(context string) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, ctx := range []string{context, GeneralContext} {
		for code := range r.table[ctx] {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

func (r *Resolver) warnUnresolved(code, context string) {
	key := context + "\x00" + code
	r.mu.Lock()
	_, seen := r.warned[key]
	r.warned[key] = struct{}{}
	r.mu.Unlock()
	if seen {
		return
	}

	logger := r.logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.Warn("no message template for validation error",
		slog.String("code", code),
		slog.String("context", context),
	)
}
