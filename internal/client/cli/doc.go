// Package cli provides the interactive campuslink command-line client.
//
// It wires configuration, the local sealed store, the gateway client, the
// session store, the route guard and the auth controller, then runs a REPL.
// The App itself is the navigation layer: it tracks the current screen and
// prints every move the guard makes.
//
// Commands:
//   - signup / signin / signout
//   - profile (guided form) and profile import (raw JSON document)
//   - whoami, refresh
//   - go <screen> to move between sign-in, sign-up, user-info and home
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
