package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/application/app"
	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
	"github.com/penwyp/go-breathfree/internal/util"
)

var errAmbiguousID = errors.New("id prefix matches more than one entry")

// parseAt converts an --at flag to Unix millis. Empty means now (zero).
func parseAt(at string) (int64, error) {
	if strings.TrimSpace(at) == "" {
		return 0, nil
	}
	return journal.ParseLocalDateTime(at, util.GetTimeProvider().Location())
}

func newResistCmd(o *rootOptions) *cobra.Command {
	var at, note string
	cmd := &cobra.Command{
		Use:   "resist",
		Short: "Log a resisted craving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := parseAt(at)
			if err != nil {
				return err
			}
			added, err := o.app.AddEntry(app.EntryInput{Kind: model.KindResist, At: ts, Note: note})
			if err != nil {
				return err
			}
			return o.notice(cmd, added, "🛡  Craving resisted. %d so far, keep going.", o.app.Report().ResistCount)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `When it happened, "YYYY-MM-DD HH:MM" (default now)`)
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	return cmd
}

func newConsumeCmd(o *rootOptions) *cobra.Command {
	var (
		at, note string
		count    int
	)
	cmd := &cobra.Command{
		Use:     "consume",
		Aliases: []string{"puff"},
		Short:   "Log units consumed; this restarts the streak",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := parseAt(at)
			if err != nil {
				return err
			}
			added, err := o.app.AddEntry(app.EntryInput{Kind: model.KindConsume, Quantity: count, At: ts, Note: note})
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Logged %d consumed.", added.Entry.Quantity)
			switch {
			case added.EpochMoved:
				msg += " Your streak restarts from " + util.GetTimeProvider().FormatMillis(added.Entry.Timestamp, "2006-01-02 15:04") + ". Every attempt counts."
			case added.Retroactive:
				msg += " It is older than your quit date, so the streak is unchanged."
			}
			return o.notice(cmd, added, "%s", msg)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of units")
	cmd.Flags().StringVar(&at, "at", "", `When it happened, "YYYY-MM-DD HH:MM" (default now)`)
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	return cmd
}

func newEntriesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List, edit and delete journal entries",
	}
	cmd.AddCommand(newEntriesListCmd(o), newEntriesEditCmd(o), newEntriesDeleteCmd(o))
	return cmd
}

func newEntriesListCmd(o *rootOptions) *cobra.Command {
	var limit int
	var kind string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := o.app.Entries()
			if kind != "" {
				k, err := model.ParseEntryKind(kind)
				if err != nil {
					return err
				}
				filtered := entries[:0]
				for _, e := range entries {
					if e.Kind == k {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			return o.print(cmd, formatter.EntriesView{Entries: entries})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Limit result count (0 = unlimited)")
	cmd.Flags().StringVar(&kind, "type", "", "Only show resist or consume entries")
	return cmd
}

func newEntriesEditCmd(o *rootOptions) *cobra.Command {
	var (
		at, note, kind string
		count          int
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an entry's time, type, count or note",
		Long: `Change an entry. The id may be any unique prefix shown by "entries list".
Edits re-sort the journal but never move the quit date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := resolveEntry(o.app, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("at") {
				ts, err := parseAt(at)
				if err != nil {
					return err
				}
				e.Timestamp = ts
			}
			if flags.Changed("type") {
				k, err := model.ParseEntryKind(kind)
				if err != nil {
					return err
				}
				e.Kind = k
			}
			if flags.Changed("count") {
				e.Quantity = count
			}
			if flags.Changed("note") {
				e.Note = strings.TrimSpace(note)
			}
			updated, err := o.app.UpdateEntry(e)
			if err != nil {
				return err
			}
			return o.notice(cmd, updated, "Entry %s updated.", shortID(updated.ID))
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `New time, "YYYY-MM-DD HH:MM"`)
	cmd.Flags().StringVar(&kind, "type", "", "New type (resist or consume)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "New unit count")
	cmd.Flags().StringVar(&note, "note", "", "New note (empty clears it)")
	return cmd
}

func newEntriesDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry; the quit date is left alone",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := resolveEntry(o.app, args[0])
			if err != nil {
				return err
			}
			if err := o.app.DeleteEntry(e.ID); err != nil {
				return err
			}
			return o.notice(cmd, e, "Entry %s deleted.", shortID(e.ID))
		},
	}
}

// resolveEntry finds an entry by full id or unique prefix.
func resolveEntry(a *app.App, ref string) (model.Entry, error) {
	ref = strings.TrimSpace(ref)
	if e, err := a.Entry(ref); err == nil {
		return e, nil
	}
	var match *model.Entry
	for _, e := range a.Entries() {
		if ref != "" && strings.HasPrefix(e.ID, ref) {
			if match != nil {
				return model.Entry{}, fmt.Errorf("%w: %s", errAmbiguousID, ref)
			}
			e := e
			match = &e
		}
	}
	if match == nil {
		return model.Entry{}, fmt.Errorf("%w: %s", journal.ErrEntryNotFound, ref)
	}
	return *match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
