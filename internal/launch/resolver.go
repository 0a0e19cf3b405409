package launch

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/five82/drova-launcher/internal/state"
)

// DesktopID is the literal id the UI uses for the fallback desktop card.
const DesktopID = "desktop"

// Table is the read side of the launch state.
type Table interface {
	IsDesktop(id string) (bool, error)
	Lookup(id string) (state.LaunchParams, bool, error)
}

// Shell is the window the launcher runs in.
type Shell interface {
	Hide()
	Exit(code int)
}

// Spawner starts a prepared command without waiting for it.
type Spawner interface {
	Start(cmd *exec.Cmd) error
}

// Options configure a Resolver.
type Options struct {
	Table          Table
	Shell          Shell
	Spawner        Spawner // nil uses ExecSpawner
	ArgMode        ArgMode
	DryRun         bool // log the command instead of starting it
	ExitAfterSpawn bool
	Logger         *slog.Logger
}

// Resolver executes the action bound to a product id.
type Resolver struct {
	table          Table
	shell          Shell
	spawner        Spawner
	argMode        ArgMode
	dryRun         bool
	exitAfterSpawn bool
	log            *slog.Logger
}

// NewResolver builds a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Table == nil {
		return nil, fmt.Errorf("resolver requires a launch table")
	}
	if opts.Shell == nil {
		return nil, fmt.Errorf("resolver requires a shell")
	}
	r := &Resolver{
		table:          opts.Table,
		shell:          opts.Shell,
		spawner:        opts.Spawner,
		argMode:        opts.ArgMode,
		dryRun:         opts.DryRun,
		exitAfterSpawn: opts.ExitAfterSpawn,
		log:            opts.Logger,
	}
	if r.spawner == nil {
		r.spawner = NewExecSpawner(nil)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	r.log = r.log.With("component", "launch")
	return r, nil
}

// Launch runs the action for productID. Desktop entries close the shell;
// everything else starts the configured executable.
func (r *Resolver) Launch(productID string) error {
	desktop, err := r.isDesktop(productID)
	if err != nil {
		return err
	}
	if desktop {
		r.log.Info("leaving to desktop", "product", productID)
		r.closeShell()
		return nil
	}

	params, ok, err := r.table.Lookup(productID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", productID, ErrNotFound)
	}
	if params.ExePath == "" {
		return fmt.Errorf("%s: %w", productID, ErrEmptyPath)
	}

	cmd, err := r.Command(params)
	if err != nil {
		return err
	}
	if r.dryRun {
		r.log.Info("dry run", "product", productID, "path", cmd.Path, "args", cmd.Args[1:], "dir", cmd.Dir)
		return nil
	}
	if err := r.spawner.Start(cmd); err != nil {
		return &SpawnError{Path: params.ExePath, Err: err}
	}
	r.log.Info("game started", "product", productID, "path", params.ExePath)
	if r.exitAfterSpawn {
		r.closeShell()
	}
	return nil
}

// Command builds the process for params without starting it.
func (r *Resolver) Command(params state.LaunchParams) (*exec.Cmd, error) {
	args, err := NormalizeArgs(params.Args, r.argMode)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(params.ExePath, args...)
	if params.WorkDir != "" {
		cmd.Dir = params.WorkDir
	}
	return cmd, nil
}

func (r *Resolver) isDesktop(productID string) (bool, error) {
	if productID == DesktopID {
		return true, nil
	}
	return r.table.IsDesktop(productID)
}

func (r *Resolver) closeShell() {
	r.shell.Hide()
	r.shell.Exit(0)
}
