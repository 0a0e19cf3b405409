package launch

import (
	"log/slog"
	"os/exec"
)

// ExecSpawner starts commands in their own session so they outlive the
// launcher, and reaps them in the background.
type ExecSpawner struct {
	log *slog.Logger
}

// NewExecSpawner builds an ExecSpawner. logger may be nil.
func NewExecSpawner(logger *slog.Logger) *ExecSpawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecSpawner{log: logger}
}

// Start implements Spawner.
func (s *ExecSpawner) Start(cmd *exec.Cmd) error {
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		err := cmd.Wait()
		s.log.Debug("game exited", "path", cmd.Path, "pid", cmd.Process.Pid, "error", err)
	}()
	return nil
}
