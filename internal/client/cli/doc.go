// Package cli provides the interactive Minuend station client.
//
// It wires configuration, the local credential database, the game API
// client, the session store and an interactive REPL. The station view is
// mounted only while the session has a resolved station; mission cards live
// inside it and go away with it.
//
// Key features:
//   - Login / Register / Logout
//   - Storage and hangar: show, upgrade cost, upgrade, add ship
//   - Locations with a mission card each: start, submit, cancel, check
//   - Mission detail, polling and abort
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
