package commands

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/walteh/contactsaver/cmd/contactsaver/opts"
	"github.com/walteh/contactsaver/pkg/log"
	"github.com/walteh/contactsaver/pkg/session"
	"github.com/walteh/contactsaver/pkg/store"
	"gitlab.com/tozd/go/errors"
)

// RunSession runs the interactive session against the configured data file
func RunSession(cmd *cobra.Command, o *opts.RootOpts) error {
	ctx := cmd.Context()

	st := store.New(o.Fs, o.Config.DataFile)
	s := session.New(st, newPrompter(cmd), log.FromContext(ctx), session.Options{
		MaxAttempts: o.Config.MaxAttempts,
	})

	if _, err := s.Run(ctx); err != nil {
		return errors.Errorf("running session: %w", err)
	}

	return nil
}

// newPrompter picks pterm widgets on a terminal and plain line reading otherwise
func newPrompter(cmd *cobra.Command) session.Prompter {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return session.NewTermPrompter()
	}
	return session.NewLinePrompter(in, cmd.OutOrStdout())
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
