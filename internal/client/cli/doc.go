// Package cli provides the karmaboard command-line tool.
//
// Commands:
//   - sync: run one sync pass against µLearn and persist the result
//   - migrate: apply the database schema
//   - show: print the ranked leaderboard as a table or JSON
//
// Configuration comes from the same layers as the server (defaults, file,
// environment, short flags); missing upstream credentials are prompted for
// when stdin is a terminal.
package cli
