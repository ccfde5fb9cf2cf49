package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/contactsaver/cmd/contactsaver/commands"
	"github.com/walteh/contactsaver/cmd/contactsaver/opts"
	"github.com/walteh/contactsaver/pkg/config"
	"github.com/walteh/contactsaver/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds flags shared by every command
type rootFlags struct {
	configFile  string
	debug       bool
	dataFile    string
	maxAttempts int
}

// newRootCmd builds the command tree. o.Fs must be set; o.Config is filled in before any command runs.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "contactsaver",
		Short: "Save participant contacts to a CSV file",
		Long: `contactsaver asks for participant details (name, age, phone, track),
validates each answer, and appends the participant to a CSV file.
When you are done it lists every participant saved so far.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, flags, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunSession(cmd, o)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewListCmd(o),
		commands.NewVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", ".contactsaver.yaml", "config file path (yaml, json or hcl)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.dataFile, "data", "", "override the CSV data file")
	cmd.PersistentFlags().IntVar(&flags.maxAttempts, "max-attempts", 0, "invalid answers allowed per field (0 for no limit)")
}

// setup configures logging, loads config and applies flag overrides
func setup(cmd *cobra.Command, flags *rootFlags, o *opts.RootOpts) error {
	ctx := setupLogging(cmd, zerolog.InfoLevel, flags.debug)

	cfg, err := config.Load(ctx, o.Fs, flags.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("data") {
		cfg.DataFile = flags.dataFile
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = flags.maxAttempts
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}

	// the config may lower or raise the level chosen above
	ctx = setupLogging(cmd, cfg.Level(), flags.debug)
	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration loaded")

	o.Config = cfg
	return nil
}

// setupLogging configures zerolog and the console logger on the command context
func setupLogging(cmd *cobra.Command, level zerolog.Level, debug bool) context.Context {
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &zlog

	ctx := zlog.WithContext(cmd.Context())
	ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), zlog))
	cmd.SetContext(ctx)

	return ctx
}
