package forms

// Group holds named controls in the order they were added
type Group struct {
	names    []string
	controls map[string]AbstractControl
}

func NewGroup() *Group {
	return &Group{controls: make(map[string]AbstractControl)}
}

// Add registers c under name and assigns the name to c. Adding an existing
// name replaces the control in place.
func (g *Group) Add(name string, c AbstractControl) *Group {
	if n, ok := c.(namer); ok {
		n.SetName(name)
	}
	if _, exists := g.controls[name]; !exists {
		g.names = append(g.names, name)
	}
	g.controls[name] = c
	return g
}

func (g *Group) Get(name string) AbstractControl {
	return g.controls[name]
}

// Control returns the named Control, or nil if name is not a Control
func (g *Group) Control(name string) *Control {
	c, _ := g.controls[name].(*Control)
	return c
}

// Array returns the named Array, or nil if name is not an Array
func (g *Group) Array(name string) *Array {
	a, _ := g.controls[name].(*Array)
	return a
}

func (g *Group) Names() []string {
	return append([]string(nil), g.names...)
}

func (g *Group) Valid() bool {
	for _, name := range g.names {
		if !g.controls[name].Valid() {
			return false
		}
	}
	return true
}

// Validate re-runs every control's validators. Cross-field validators such
// as EqualTo rely on this after a sibling changes.
func (g *Group) Validate() {
	for _, name := range g.names {
		c := g.controls[name]
		if a, ok := c.(*Array); ok {
			for _, item := range a.Controls() {
				item.Validate()
			}
		}
		c.Validate()
	}
}

func (g *Group) MarkAllAsTouched() {
	for _, name := range g.names {
		c := g.controls[name]
		if a, ok := c.(interface{ MarkAllAsTouched() }); ok {
			a.MarkAllAsTouched()
			continue
		}
		c.MarkAsTouched()
	}
}

func (g *Group) Value() map[string]any {
	value := make(map[string]any, len(g.names))
	for _, name := range g.names {
		value[name] = g.controls[name].Value()
	}
	return value
}

// Reset resets every Control in the group and empties every Array
func (g *Group) Reset() {
	for _, name := range g.names {
		switch c := g.controls[name].(type) {
		case *Control:
			c.Reset()
		case *Array:
			for c.Len() > 0 {
				c.RemoveAt(c.Len() - 1)
			}
			c.touched = false
			c.dirty = false
		}
	}
}
