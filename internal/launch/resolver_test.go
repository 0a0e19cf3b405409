package launch

import (
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/drova-launcher/internal/state"
)

type fakeTable struct {
	desktop  state.DesktopSet
	launches map[string]state.LaunchParams
	err      error

	lookups int
}

func (f *fakeTable) IsDesktop(id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.desktop.Contains(id), nil
}

func (f *fakeTable) Lookup(id string) (state.LaunchParams, bool, error) {
	f.lookups++
	if f.err != nil {
		return state.LaunchParams{}, false, f.err
	}
	p, ok := f.launches[id]
	return p, ok, nil
}

type fakeShell struct {
	calls []string
	code  int
}

func (s *fakeShell) Hide() { s.calls = append(s.calls, "hide") }

func (s *fakeShell) Exit(code int) {
	s.calls = append(s.calls, "exit")
	s.code = code
}

type fakeSpawner struct {
	cmds []*exec.Cmd
	err  error
}

func (s *fakeSpawner) Start(cmd *exec.Cmd) error {
	s.cmds = append(s.cmds, cmd)
	return s.err
}

func newResolver(t *testing.T, table *fakeTable, mutate func(*Options)) (*Resolver, *fakeShell, *fakeSpawner) {
	t.Helper()
	shell := &fakeShell{}
	spawner := &fakeSpawner{}
	opts := Options{Table: table, Shell: shell, Spawner: spawner}
	if mutate != nil {
		mutate(&opts)
	}
	r, err := NewResolver(opts)
	require.NoError(t, err)
	return r, shell, spawner
}

func TestLaunch_DesktopNeverLooksUp(t *testing.T) {
	table := &fakeTable{
		desktop:  state.NewDesktopSet("d1"),
		launches: map[string]state.LaunchParams{"d1": {ExePath: "/should/not/run"}},
	}
	r, shell, spawner := newResolver(t, table, nil)

	require.NoError(t, r.Launch("d1"))
	require.Equal(t, []string{"hide", "exit"}, shell.calls)
	require.Zero(t, shell.code)
	require.Zero(t, table.lookups)
	require.Empty(t, spawner.cmds)
}

func TestLaunch_DesktopLiteral(t *testing.T) {
	r, shell, _ := newResolver(t, &fakeTable{}, nil)
	require.NoError(t, r.Launch(DesktopID))
	require.Equal(t, []string{"hide", "exit"}, shell.calls)
}

func TestLaunch_NotFound(t *testing.T) {
	r, shell, spawner := newResolver(t, &fakeTable{}, nil)
	err := r.Launch("missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, shell.calls)
	require.Empty(t, spawner.cmds)
}

func TestLaunch_EmptyPathNeverSpawns(t *testing.T) {
	table := &fakeTable{launches: map[string]state.LaunchParams{"p1": {WorkDir: "/games", Args: "-x"}}}
	r, _, spawner := newResolver(t, table, nil)
	require.ErrorIs(t, r.Launch("p1"), ErrEmptyPath)
	require.Empty(t, spawner.cmds)
}

func TestLaunch_LockedState(t *testing.T) {
	r, _, _ := newResolver(t, &fakeTable{err: state.ErrLocked}, nil)
	require.ErrorIs(t, r.Launch("p1"), state.ErrLocked)
}

func TestLaunch_SpawnsWithDirAndArgs(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "game.exe")
	table := &fakeTable{launches: map[string]state.LaunchParams{
		"p1": {ExePath: exe, WorkDir: "/games/one", Args: `"-windowed -nosound"`},
	}}
	r, shell, spawner := newResolver(t, table, nil)

	require.NoError(t, r.Launch("p1"))
	require.Len(t, spawner.cmds, 1)
	cmd := spawner.cmds[0]
	require.Equal(t, exe, cmd.Path)
	require.Equal(t, []string{exe, "-windowed -nosound"}, cmd.Args)
	require.Equal(t, "/games/one", cmd.Dir)
	require.Empty(t, shell.calls)
}

func TestLaunch_NoWorkDirLeavesDirUnset(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "game")
	table := &fakeTable{launches: map[string]state.LaunchParams{"p1": {ExePath: exe}}}
	r, _, spawner := newResolver(t, table, nil)

	require.NoError(t, r.Launch("p1"))
	require.Empty(t, spawner.cmds[0].Dir)
	require.Equal(t, []string{exe}, spawner.cmds[0].Args)
}

func TestLaunch_SplitMode(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "game")
	table := &fakeTable{launches: map[string]state.LaunchParams{"p1": {ExePath: exe, Args: `-w 1920 --name "Player One"`}}}
	r, _, spawner := newResolver(t, table, func(o *Options) { o.ArgMode = ArgSplit })

	require.NoError(t, r.Launch("p1"))
	require.Equal(t, []string{exe, "-w", "1920", "--name", "Player One"}, spawner.cmds[0].Args)
}

func TestLaunch_SplitModeBadQuoting(t *testing.T) {
	table := &fakeTable{launches: map[string]state.LaunchParams{"p1": {ExePath: "/bin/game", Args: `"unterminated`}}}
	r, _, spawner := newResolver(t, table, func(o *Options) { o.ArgMode = ArgSplit })

	var argsErr *ArgsError
	require.ErrorAs(t, r.Launch("p1"), &argsErr)
	require.Empty(t, spawner.cmds)
}

func TestLaunch_SpawnError(t *testing.T) {
	table := &fakeTable{launches: map[string]state.LaunchParams{"p1": {ExePath: "/bin/game"}}}
	boom := errors.New("access denied")
	r, shell, spawner := newResolver(t, table, func(o *Options) { o.ExitAfterSpawn = true })
	spawner.err = boom

	err := r.Launch("p1")
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	require.Equal(t, "/bin/game", spawnErr.Path)
	require.ErrorIs(t, err, boom)
	require.Empty(t, shell.calls)
}

func TestLaunch_ExitAfterSpawn(t *testing.T) {
	table := &fakeTable{launches: map[string]state.LaunchParams{"p1": {ExePath: "/bin/game"}}}
	r, shell, spawner := newResolver(t, table, func(o *Options) { o.ExitAfterSpawn = true })

	require.NoError(t, r.Launch("p1"))
	require.Len(t, spawner.cmds, 1)
	require.Equal(t, []string{"hide", "exit"}, shell.calls)
}

func TestLaunch_DryRunDoesNotSpawn(t *testing.T) {
	table := &fakeTable{launches: map[string]state.LaunchParams{"p1": {ExePath: "/bin/game", Args: "-x"}}}
	r, shell, spawner := newResolver(t, table, func(o *Options) {
		o.DryRun = true
		o.ExitAfterSpawn = true
	})

	require.NoError(t, r.Launch("p1"))
	require.Empty(t, spawner.cmds)
	require.Empty(t, shell.calls)
}

func TestLaunch_UsesStoreAsTable(t *testing.T) {
	store := &state.Store{}
	require.NoError(t, store.Replace(
		map[string]state.LaunchParams{"p1": {ExePath: "/bin/game"}},
		state.NewDesktopSet("d1"),
	))
	shell := &fakeShell{}
	spawner := &fakeSpawner{}
	r, err := NewResolver(Options{Table: store, Shell: shell, Spawner: spawner})
	require.NoError(t, err)

	require.NoError(t, r.Launch("p1"))
	require.Len(t, spawner.cmds, 1)
	require.NoError(t, r.Launch("d1"))
	require.Equal(t, []string{"hide", "exit"}, shell.calls)
}

func TestNewResolver_RequiresCollaborators(t *testing.T) {
	_, err := NewResolver(Options{Shell: &fakeShell{}})
	require.Error(t, err)
	_, err = NewResolver(Options{Table: &fakeTable{}})
	require.Error(t, err)
}
