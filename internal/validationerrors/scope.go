package validationerrors

// ContextSource supplies the message context for a container
type ContextSource interface {
	Context() string
}

// StaticContext is a context computed up front by the composing code
type StaticContext string

func (s StaticContext) Context() string {
	if s == "" {
		return GeneralContext
	}
	return string(s)
}

// Scope is one level of nested validation context. A scope with an empty
// name inherits from its parent; the nearest named scope wins and names are
// never combined.
type Scope struct {
	parent *Scope
	name   string
}

// NewScope returns a root scope carrying the module default context
func NewScope(defaultContext string) *Scope {
	return &Scope{name: defaultContext}
}

// Child opens a nested scope. An empty name inherits the parent's context.
func (s *Scope) Child(name string) *Scope {
	return &Scope{parent: s, name: name}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// SetName changes the override of this scope. Containers below it pick the
// change up on their next check.
func (s *Scope) SetName(name string) {
	s.name = name
}

// Context walks up to the first scope with an explicit name
func (s *Scope) Context() string {
	for n := s; n != nil; n = n.parent {
		if n.name != "" {
			return n.name
		}
	}
	return GeneralContext
}
