package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/data/backup"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
	"github.com/penwyp/go-breathfree/internal/util"
)

func newBackupCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import all data as a JSON document",
	}

	export := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a backup (default breathfree-backup-YYYY-MM-DD.json, - for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := o.app.Export()
			if err != nil {
				return err
			}
			path := backup.FileName(o.now())
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(path, data, 0600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			util.LogInfo("backup exported", util.F("path", path), util.F("bytes", len(data)))
			return o.notice(cmd, map[string]string{"path": path}, "Backup written to %s", path)
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a backup into the current data (- reads stdin)",
		Long: `Merge a backup into the current data. Entries merge by id and existing
entries win; every other section in the file replaces the stored one.
An invalid file changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}
			summary, err := o.app.Import(data)
			if err != nil {
				return err
			}
			util.LogInfo("backup imported",
				util.F("added", summary.EntriesAdded), util.F("skipped", summary.EntriesSkipped))
			return o.print(cmd, formatter.ImportView{ImportSummary: summary})
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}

func newResetCmd(o *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
					"This erases every entry, credit and item. Type 'yes' to continue: ")
				if err != nil {
					return err
				}
				if !ok {
					return o.notice(cmd, nil, "Reset cancelled.")
				}
			}
			if err := o.app.Reset(); err != nil {
				return err
			}
			util.LogInfo("data reset", util.F("store", o.app.Location()))
			return o.notice(cmd, nil, "All data erased.")
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "yes" || answer == "y", nil
}
