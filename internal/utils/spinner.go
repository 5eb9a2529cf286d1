package utils

// Spinner cycles through braille frames, one per Tick
type Spinner struct {
	frames []string
	index  int
}

func NewSpinner() *Spinner {
	return &Spinner{
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Tick advances to the next frame
func (s *Spinner) Tick() {
	s.index = (s.index + 1) % len(s.frames)
}

// Reset returns to the first frame
func (s *Spinner) Reset() {
	s.index = 0
}

func (s *Spinner) View() string {
	return s.frames[s.index]
}
