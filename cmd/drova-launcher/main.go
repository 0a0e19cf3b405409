package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/drova-launcher/internal/app"
	"github.com/five82/drova-launcher/internal/apperr"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override launcher config path (optional)")
	prefsPath := flag.String("prefs", "", "override UI preferences path (optional)")
	debug := flag.Bool("debug", false, "log at debug level")
	list := flag.Bool("list", false, "load the catalog, print the cards as JSON and exit")
	launchID := flag.String("launch", "", "load the catalog and launch the given product id without the UI")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Debug:      *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "drova-launcher: %v\n", err)
		return 1
	}
	defer a.Close()

	code, err := dispatch(ctx, a, *list, *launchID)
	if err != nil {
		if app.IsCanceled(err) {
			return 130
		}
		slog.Error("launcher failed", "error", err)
		fmt.Fprintf(os.Stderr, "drova-launcher: %s\n", apperr.Message(err))
		return 1
	}
	return code
}

func dispatch(ctx context.Context, a *app.App, list bool, launchID string) (int, error) {
	switch {
	case list:
		return 0, a.List(ctx, os.Stdout)
	case launchID != "":
		return a.Launch(ctx, launchID)
	default:
		return a.RunUI(ctx)
	}
}
