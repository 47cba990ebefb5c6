package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"celinker/internal/audit"
	"celinker/internal/linker"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "review [PN]",
		Short: "Resolve a part number interactively, or list decisions waiting on an operator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				store, err := ctx.openAuditStore()
				if err != nil {
					return err
				}
				defer store.Close()
				return listPending(cmd, store, limit)
			}
			return reviewPN(cmd, ctx, args[0])
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum pending decisions to list")
	return cmd
}

func listPending(cmd *cobra.Command, store *audit.Store, limit int) error {
	entries, err := store.PendingReview(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No decisions pending review.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		best := "-"
		if entry.BestRecordID != nil {
			best = strconv.FormatInt(*entry.BestRecordID, 10)
		}
		rows = append(rows, []string{
			entry.TraceID,
			entry.Query,
			best,
			entry.Rationale,
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Trace", "Query", "Best", "Rationale", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}

// reviewPN runs the pipeline for one part number and lets the operator act
// on the result. The chosen record does not have to be the ranked best; any
// listed candidate is a valid choice.
func reviewPN(cmd *cobra.Command, ctx *commandContext, pn string) error {
	l, store, err := ctx.newLinker()
	if err != nil {
		return err
	}
	defer store.Close()

	decision, err := l.Run(cmd.Context(), pn)
	if err != nil {
		return describeError(err)
	}

	out := cmd.OutOrStdout()
	printDecision(cmd, decision)

	if !decision.NeedsReview {
		fmt.Fprintln(out, "Automatic attachment allowed; nothing to review.")
		return nil
	}
	if len(decision.Candidates) == 0 {
		fmt.Fprintln(out, "No candidates to choose from.")
		return nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(out, "Stdin is not a terminal; rerun in an interactive session to confirm or reject.")
		return nil
	}

	fmt.Fprint(out, "Action [c]onfirm RECORD_ID / [r]eject / [s]kip: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read action: %w", err)
	}

	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		fmt.Fprintln(out, "No action taken.")
		return nil
	}

	switch fields[0] {
	case "c", "confirm":
		if len(fields) < 2 {
			return fmt.Errorf("confirm requires a record id")
		}
		recordID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("parse record id %q: %w", fields[1], err)
		}
		if !hasCandidate(decision, recordID) {
			return fmt.Errorf("record %d is not among the candidates for this decision", recordID)
		}
		if err := store.RecordAction(cmd.Context(), decision.TraceID, "operator", "confirm", &recordID, ""); err != nil {
			return err
		}
		fmt.Fprintf(out, "Confirmed record %d for %s\n", recordID, decision.Query)
	case "r", "reject":
		if err := store.RecordAction(cmd.Context(), decision.TraceID, "operator", "reject", nil, ""); err != nil {
			return err
		}
		fmt.Fprintf(out, "Rejected all candidates for %s\n", decision.Query)
	case "s", "skip":
		fmt.Fprintln(out, "Skipped.")
	default:
		return fmt.Errorf("unknown action %q", fields[0])
	}
	return nil
}

func hasCandidate(decision linker.Decision, recordID int64) bool {
	for _, cand := range decision.Candidates {
		if cand.RecordID == recordID {
			return true
		}
	}
	return false
}
