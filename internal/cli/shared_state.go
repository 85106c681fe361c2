package cli

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Phase is the 1-based phase tab currently selected.
	Phase int

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator),
// status bar (2 lines: separator + hints), and command bar (1 line).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}

// PhaseCount returns how many phase tabs the horizon has.
func (s *SharedState) PhaseCount() int {
	return len(s.App.Plan.Horizon().Phases)
}
