package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/chapter-events/internal/calendar"
	"github.com/pfrederiksen/chapter-events/internal/event"
)

func newExportICSCmd(opts *rootOptions) *cobra.Command {
	var (
		id     string
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export events as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(true)
			if err != nil {
				return err
			}
			defer a.log.Sync() // nolint:errcheck

			listed, err := a.service.List(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now()
			var ics string
			if id != "" {
				var found *event.Event
				for _, l := range listed {
					if l.ID == id {
						found = l.Event
						break
					}
				}
				if found == nil {
					return fmt.Errorf("event %s not found", id)
				}
				ics = calendar.GenerateICS(found, now)
			} else {
				events := make([]*event.Event, 0, len(listed))
				for _, l := range listed {
					events = append(events, l.Event)
				}
				ics = calendar.GenerateBulkICS(events, name, now)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if _, err := io.WriteString(w, ics); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Export only the event with this id")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file ('-' for stdout)")
	cmd.Flags().StringVar(&name, "name", calendar.DefaultCalendarName, "Calendar name")
	return cmd
}
