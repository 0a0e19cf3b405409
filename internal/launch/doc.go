// Package launch turns a selected product id into an action: leaving the
// kiosk for the desktop, or starting the game executable detached from the
// launcher.
package launch
