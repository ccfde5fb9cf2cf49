package opts

import (
	"github.com/spf13/afero"
	"github.com/walteh/contactsaver/pkg/config"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Fs backs the data file and the config file
	Fs afero.Fs
	// Config is filled in by the root command before any subcommand runs
	Config *config.Config
}
