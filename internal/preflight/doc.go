// Package preflight provides readiness checks for the filesystem paths,
// database, and AI credentials the daemon depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and refuses to start when a check
//     fails, so misconfiguration surfaces before any lecture is claimed.
//   - The CLI "lectern health" command renders the individual results, and
//     adds the billable AI provider ping via CheckAI.
package preflight
