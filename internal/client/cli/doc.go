// Package cli provides the TrainPi command-line client.
//
// Every command opens the local SQLite cache, resumes the saved session (if
// any) and talks to the server over the configured transport. Exception
// commands keep working when the server is down: listing serves the cache
// and clearing or creating mutates it locally.
//
// Commands:
//   - register / login / logout
//   - exceptions list [--status] / create / clear <id>
//   - profile show / set
//   - format-duration <value>
//   - shell, an interactive loop over the same operations
package cli
