package validationerrors

// Config is the composition-time configuration shared by every container
type Config struct {
	// DefaultContext is the context at the root scope
	DefaultContext string

	// ErrorComponentFactory creates the render target of each container
	ErrorComponentFactory func() RenderTarget

	// Messages is the resolver table
	Messages MessageTable

	// Priority orders simultaneous errors; empty keeps insertion order
	Priority []string

	// Provider optionally translates templates
	Provider MessageProvider
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		DefaultContext: GeneralContext,
		ErrorComponentFactory: func() RenderTarget {
			return NewInputErrors()
		},
		Messages: DefaultMessages(),
	}
}

// BuildConfig merges custom over the defaults field by field. Fields left
// at their zero value keep the default; a supplied Messages table replaces
// the built-in one wholesale (use MessageTable.Merge to layer instead).
func BuildConfig(custom *Config) Config {
	cfg := DefaultConfig()
	if custom == nil {
		return cfg
	}
	if custom.DefaultContext != "" {
		cfg.DefaultContext = custom.DefaultContext
	}
	if custom.ErrorComponentFactory != nil {
		cfg.ErrorComponentFactory = custom.ErrorComponentFactory
	}
	if custom.Messages != nil {
		cfg.Messages = custom.Messages
	}
	if len(custom.Priority) > 0 {
		cfg.Priority = custom.Priority
	}
	if custom.Provider != nil {
		cfg.Provider = custom.Provider
	}
	return cfg
}

// Module is the composed subsystem: one configuration, one resolver and the
// root validation scope, handed to every container it creates.
type Module struct {
	config   Config
	resolver *Resolver
	root     *Scope
}

func NewModule(custom *Config, opts ...ResolverOption) *Module {
	cfg := BuildConfig(custom)

	resolverOpts := []ResolverOption{WithPriority(cfg.Priority...)}
	if cfg.Provider != nil {
		resolverOpts = append(resolverOpts, WithProvider(cfg.Provider))
	}
	resolverOpts = append(resolverOpts, opts...)

	return &Module{
		config:   cfg,
		resolver: NewResolver(cfg.Messages, resolverOpts...),
		root:     NewScope(cfg.DefaultContext),
	}
}

func (m *Module) Config() Config {
	return m.config
}

func (m *Module) Resolver() *Resolver {
	return m.resolver
}

// Root is the scope carrying the default context
func (m *Module) Root() *Scope {
	return m.root
}

// NewFieldContainer creates a field container; a nil ctx uses the root scope
func (m *Module) NewFieldContainer(ctx ContextSource) *FieldContainer {
	if ctx == nil {
		ctx = m.root
	}
	return NewFieldContainer(m.config, m.resolver, ctx)
}

// NewArrayContainer creates an array container; a nil ctx uses the root scope
func (m *Module) NewArrayContainer(ctx ContextSource) *ArrayContainer {
	if ctx == nil {
		ctx = m.root
	}
	return NewArrayContainer(m.config, m.resolver, ctx)
}
