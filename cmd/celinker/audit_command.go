package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"celinker/internal/audit"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect recorded decisions",
	}

	auditCmd.AddCommand(newAuditRecentCommand(ctx))
	auditCmd.AddCommand(newAuditShowCommand(ctx))
	return auditCmd
}

func newAuditRecentCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent decisions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openAuditStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum decisions to list")
	return cmd
}

func newAuditShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show TRACE_ID",
		Short: "Show one decision with its raw bridge responses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openAuditStore()
			if err != nil {
				return err
			}
			defer store.Close()

			detail, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if detail == nil {
				return fmt.Errorf("no decision recorded for trace %s", args[0])
			}

			if jsonOutput {
				return writeJSON(cmd, detail)
			}

			out := cmd.OutOrStdout()
			printDecision(cmd, detail.Decision)
			for _, response := range detail.Responses {
				fmt.Fprintf(out, "Key %s (%s): %d rows\n",
					response.Key.Value, response.Key.Origin, len(response.Rows))
			}
			for _, action := range detail.Actions {
				record := "-"
				if action.RecordID != nil {
					record = strconv.FormatInt(*action.RecordID, 10)
				}
				fmt.Fprintf(out, "Action: %s by %s record=%s at %s\n",
					action.Action, action.Actor, record,
					action.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full detail as JSON")
	return cmd
}

func printEntries(cmd *cobra.Command, entries []audit.Entry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No decisions recorded.")
		return
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
			yesNo(entry.NeedsReview),
			best,
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Trace", "Query", "Review", "Best", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
}
