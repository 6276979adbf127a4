// Package cli provides the interactive terminal client of the SES dashboard.
//
// It wires configuration, the SQLite session store, the API client, the
// route guard and the page controllers behind a simple REPL. Each route of
// the web dashboard is a screen here: "go /events" mounts the events page,
// page commands such as "next" or "search" drive its controller, and the
// page is redrawn after every command.
//
// Transport 401s and sign-outs made by another client sharing the same
// storage are noticed between commands, at which point the guard sends the
// operator back to the login screen.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
