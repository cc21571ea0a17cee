package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFetchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Preview the event data parsed from a page without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(true)
			if err != nil {
				return err
			}
			defer a.log.Sync() // nolint:errcheck

			data, err := a.service.Preview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return WriteEventData(cmd.OutOrStdout(), data, opts.outputFormat())
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var eventType string

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Scrape an event page and add the event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(true)
			if err != nil {
				return err
			}
			defer a.log.Sync() // nolint:errcheck

			evt, err := a.service.AddFromURL(cmd.Context(), urlInput(args[0], eventType))
			if err != nil {
				return err
			}
			return WriteEvent(cmd.OutOrStdout(), evt, opts.outputFormat())
		},
	}

	cmd.Flags().StringVar(&eventType, "type", "", "Event type (Summit, Roundtable, Workshop, Forum, Demo Night, Meetup, Other)")
	return cmd
}

func newAddManualCmd(opts *rootOptions) *cobra.Command {
	var in manualFlags

	cmd := &cobra.Command{
		Use:   "add-manual",
		Short: "Add an event from fields given on the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(true)
			if err != nil {
				return err
			}
			defer a.log.Sync() // nolint:errcheck

			evt, err := a.service.AddManual(cmd.Context(), in.input())
			if err != nil {
				return err
			}
			return WriteEvent(cmd.OutOrStdout(), evt, opts.outputFormat())
		},
	}

	in.register(cmd)
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		sortFlag     string
		upcomingOnly bool
		filters      filterFlags
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored events, upcoming first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, ok := ParseSortOrder(sortFlag)
			if !ok {
				return fmt.Errorf("invalid sort order: %s (must be 'date', 'title' or 'added')", sortFlag)
			}

			now := time.Now()
			flt, err := filters.build(now)
			if err != nil {
				return err
			}

			a, err := opts.newApp(true)
			if err != nil {
				return err
			}
			defer a.log.Sync() // nolint:errcheck

			events, err := a.service.List(cmd.Context())
			if err != nil {
				return err
			}

			if !flt.IsEmpty() {
				a.log.Debug("Applying list filter", zap.Stringer("filter", flt))
			}
			kept := events[:0]
			for _, evt := range events {
				if upcomingOnly && !evt.IsUpcoming {
					continue
				}
				if flt.Matches(evt.Event) {
					kept = append(kept, evt)
				}
			}
			events = kept
			sortEvents(events, order)

			return WriteList(cmd.OutOrStdout(), NewListResult(events, now), opts.outputFormat(), opts.verbose)
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", string(SortByDate), "Sort order: date, title or added")
	cmd.Flags().BoolVar(&upcomingOnly, "upcoming", false, "Only list upcoming events")
	filters.register(cmd)
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(true)
			if err != nil {
				return err
			}
			defer a.log.Sync() // nolint:errcheck

			if err := a.service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			if opts.outputFormat() == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"success": true, "id": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", args[0])
			return nil
		},
	}
}
