// Package app is the composition root of the launcher.
//
// # Overview
//
// New loads the configuration, installs the rotating file logger and wires
// the station provider, the Drova client, the optional image cache, the
// launch store and the catalog aggregator. The returned App then runs in
// one of three modes:
//
//   - RunUI: the kiosk screen (default)
//   - List: one catalog load, cards printed as JSON
//   - Launch: one catalog load followed by a single launch, no screen
//
// # Data Flow
//
//	┌──────────────┐
//	│   New()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read launcher config
//	       ├─────> logging.Setup()      Rotating log file
//	       ├─────> drova.NewClient()    HTTP client
//	       ├─────> station.Default()    Registry or env credentials
//	       ├─────> imagecache.New()     When [images] cache is on
//	       └─────> catalog.New()        Aggregator over a state.Store
//
//	RunUI / Launch:
//	 aggregator.Load() ──> state.Store.Replace()
//	 launch.Resolver.Launch(id) ──> state.Store.Lookup() ──> spawn or exit
//
// # Error Handling
//
// Configuration and wiring failures are returned from New. Load and launch
// failures are returned from the mode methods with their full wrap chain;
// the command line renders them through apperr.Message. A launch of the
// literal desktop id still succeeds when the catalog cannot be loaded, so a
// broken station never traps the operator in the kiosk.
package app
