package commands

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/contactsaver/cmd/contactsaver/opts"
	"github.com/walteh/contactsaver/pkg/log"
	"github.com/walteh/contactsaver/pkg/participant"
	"github.com/walteh/contactsaver/pkg/store"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds how many data files are read at once
const maxConcurrentLoads = 4

type listFlags struct {
	track string
	table bool
}

// fileListing is the outcome of loading one data file
type fileListing struct {
	path    string
	records []participant.Record
	err     error
}

// NewListCmd creates the list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list [files...]",
		Short: "List saved participants",
		Long: `List prints every participant stored in one or more CSV files.
With no arguments the configured data file is used.
Files are read concurrently; a file that cannot be fully read is reported
and whatever could be read from it is still listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{o.Config.DataFile}
			}
			return runList(cmd, o, paths, flags)
		},
	}

	cmd.Flags().StringVar(&flags.track, "track", "", "only list participants whose track matches this glob")
	cmd.Flags().BoolVar(&flags.table, "table", false, "render participants as a table")

	return cmd
}

func runList(cmd *cobra.Command, o *opts.RootOpts, paths []string, flags *listFlags) error {
	ctx := cmd.Context()
	console := log.FromContext(ctx)

	if flags.track != "" && !doublestar.ValidatePattern(flags.track) {
		return errors.Errorf("invalid track pattern %q", flags.track)
	}

	listings := make([]fileListing, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			recs, err := store.New(o.Fs, path).LoadAll(gctx)
			listings[i] = fileListing{path: path, records: recs, err: err}
			if err != nil {
				return errors.Errorf("loading %s: %w", path, err)
			}
			return nil
		})
	}
	loadErr := g.Wait()

	for _, l := range listings {
		if len(paths) > 1 {
			console.Header(l.path)
		}
		if l.err != nil {
			console.Warningf("Could not load every participant from %s: %v", l.path, l.err)
		}

		recs, err := filterByTrack(l.records, flags.track)
		if err != nil {
			return err
		}

		if flags.table {
			if err := renderTable(console, recs); err != nil {
				return err
			}
			continue
		}

		console.Total(len(recs))
		for _, rec := range recs {
			console.Record(rec)
		}
	}

	if loadErr != nil {
		return errors.Errorf("listing participants: %w", loadErr)
	}
	return nil
}

func filterByTrack(recs []participant.Record, pattern string) ([]participant.Record, error) {
	if pattern == "" {
		return recs, nil
	}

	out := make([]participant.Record, 0, len(recs))
	for _, rec := range recs {
		matched, err := doublestar.Match(pattern, rec.Track)
		if err != nil {
			return nil, errors.Errorf("matching track %q: %w", rec.Track, err)
		}
		if matched {
			out = append(out, rec)
		}
	}
	return out, nil
}

func renderTable(console *log.Logger, recs []participant.Record) error {
	data := pterm.TableData{participant.Header()}
	for _, rec := range recs {
		data = append(data, rec.Row())
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}

	console.Print(out)
	console.Print(fmt.Sprintf("%d participant(s)", len(recs)))
	return nil
}
