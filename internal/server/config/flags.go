package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/karmaboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-u string   upstream user (email or muid)
//	-p string   upstream password
//	-s string   spreadsheet id
//	-g string   spreadsheet tab gid
//	-k string   default projection spec
//	-l string   log level
//
// os.Args is first filtered down to these flags with flagx.FilterArgs so
// flags owned by other layers (cobra, -c) do not fail the parse.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-p", "-s", "-g", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MulearnUser, "u", config.MulearnUser, "upstream user")
	fs.StringVar(&config.MulearnPassword, "p", config.MulearnPassword, "upstream password")
	fs.StringVar(&config.SheetID, "s", config.SheetID, "spreadsheet id")
	fs.StringVar(&config.SheetGID, "g", config.SheetGID, "spreadsheet tab gid")
	fs.StringVar(&config.ProjectionCols, "k", config.ProjectionCols, "default projection spec")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
