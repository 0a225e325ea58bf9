package turtle

import "gonum.org/v1/gonum/spatial/r2"

// State is the turtle's cursor. Heading is in degrees, 0 pointing along +Y.
type State struct {
	Position r2.Vec
	Heading  float64
}

// Stack models bracketed branching. It always holds at least one state.
type Stack struct {
	states []State
}

func NewStack() *Stack {
	s := &Stack{}
	s.Reset()
	return s
}

// Reset leaves a single default state, keeping the allocation.
func (s *Stack) Reset() {
	s.states = append(s.states[:0], State{})
}

// Top returns the current state. It is valid until the next Push.
func (s *Stack) Top() *State {
	if len(s.states) == 0 {
		s.Reset()
	}
	return &s.states[len(s.states)-1]
}

// Push enters a branch, duplicating the current state.
func (s *Stack) Push() {
	s.states = append(s.states, *s.Top())
}

// Pop leaves a branch. Popping the root resets it to the default state.
func (s *Stack) Pop() {
	if len(s.states) <= 1 {
		s.Reset()
		return
	}
	s.states = s.states[:len(s.states)-1]
}

func (s *Stack) Depth() int {
	return len(s.states)
}
