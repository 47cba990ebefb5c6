package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"celinker/internal/autolink"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Batch-link part numbers listed one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// One import at a time per audit directory; concurrent batches
			// would interleave attachments for the same part numbers.
			lockPath := filepath.Join(cfg.Audit.Dir, "import.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire import lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another import is already running (lock %s)", lockPath)
			}
			defer func() { _ = lock.Unlock() }()

			pns, err := readPartNumbers(args[0])
			if err != nil {
				return err
			}
			if len(pns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
				return nil
			}

			l, store, err := ctx.newLinker()
			if err != nil {
				return err
			}
			defer store.Close()
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := []autolink.Option{autolink.WithLogger(logger)}
			var attach autolink.AttachFunc
			if !dryRun {
				attach = func(_ context.Context, pn string, recordID int64) error {
					fmt.Fprintf(cmd.OutOrStdout(), "attach %s -> record %d\n", pn, recordID)
					return nil
				}
				opts = append(opts, autolink.WithActionRecorder(store))
			}
			runner, err := autolink.New(l, attach, opts...)
			if err != nil {
				return err
			}

			outcomes := runner.RunBatch(cmd.Context(), pns)
			printImportSummary(cmd, outcomes, dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and report without attaching")
	return cmd
}

func readPartNumbers(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close()

	var pns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pns = append(pns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return pns, nil
}

func printImportSummary(cmd *cobra.Command, outcomes []autolink.Outcome, dryRun bool) {
	out := cmd.OutOrStdout()

	attached := 0
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		status := "skipped"
		record := "-"
		if outcome.Attached {
			attached++
			status = "attached"
			record = strconv.FormatInt(outcome.RecordID, 10)
		}
		rows = append(rows, []string{outcome.PN, status, record, outcome.Reason})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"PN", "Status", "Record", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	mode := ""
	if dryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(out, "%d/%d attached%s\n", attached, len(outcomes), mode)
}
