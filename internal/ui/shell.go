package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Shell is the terminal window as seen by the launch resolver. Hide leaves
// the alternate screen; Exit stops the program. Both are safe to call from
// any goroutine other than the Bubble Tea event loop.
type Shell struct {
	mu       sync.Mutex
	program  *tea.Program
	hidden   bool
	exitCode int
	exited   bool
}

// NewShell returns a Shell that is not yet attached to a program. Calls made
// before attach are recorded only.
func NewShell() *Shell {
	return &Shell{}
}

func (s *Shell) attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

// Hide implements launch.Shell.
func (s *Shell) Hide() {
	s.mu.Lock()
	s.hidden = true
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(hideMsg{})
	}
}

// Exit implements launch.Shell.
func (s *Shell) Exit(code int) {
	s.mu.Lock()
	s.exitCode = code
	s.exited = true
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(exitMsg{code: code})
	}
}

// ExitCode reports the code passed to Exit and whether Exit was called.
func (s *Shell) ExitCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode, s.exited
}

// Hidden reports whether Hide was called.
func (s *Shell) Hidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}
