package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/jobkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p string   GCP project id of the remote document store
//	-d string   path to the local database file
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.FirestoreProjectID, "p", cfg.FirestoreProjectID, "GCP project id of the remote store")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
