// Package ui is the kiosk screen of the launcher, built on Bubble Tea.
//
// # Layout
//
//   - Header: launcher name, station name and hardware summary
//   - Status line: load progress with spinner and bar, or the last error
//   - Card grid: one card per ready product, scrolled to the selection
//   - Detail line: description of the selected card
//   - Footer: short key help
//
// # Loading
//
// The first catalog load starts in Init. Progress is relayed through a
// buffered progress.Channel that a command drains one status at a time, so a
// slow screen never stalls the load. A failed load leaves a single fallback
// desktop card on screen so the operator can always leave the kiosk.
//
// # Launching
//
// Enter hands the selected product id to the Launcher in a command. The
// launcher may call back into Shell, which turns Hide into leaving the
// alternate screen and Exit into quitting the program.
//
// # Preferences
//
// The theme and the last launched product are saved to prefs on theme
// change, on launch and on quit.
package ui
