package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"celinker/internal/linker"
	"celinker/internal/services"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "match PN",
		Short: "Resolve a part number and print the decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, store, err := ctx.newLinker()
			if err != nil {
				return err
			}
			defer store.Close()

			decision, err := l.Run(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}

			if jsonOutput {
				return writeJSON(cmd, decision)
			}
			printDecision(cmd, decision)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the decision as JSON")
	return cmd
}

func printDecision(cmd *cobra.Command, decision linker.Decision) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Query:   %s\n", decision.Query)
	fmt.Fprintf(out, "Trace:   %s\n", decision.TraceID)
	fmt.Fprintf(out, "Review:  %s\n", yesNo(decision.NeedsReview))
	fmt.Fprintf(out, "Reason:  %s\n", decision.Rationale)

	if len(decision.Candidates) == 0 {
		fmt.Fprintln(out, "No candidates.")
		return
	}

	rows := make([][]string, 0, len(decision.Candidates))
	for _, cand := range decision.Candidates {
		best := ""
		if decision.Best != nil && decision.Best.RecordID == cand.RecordID {
			best = "*"
		}
		rows = append(rows, []string{
			best,
			fmt.Sprintf("%d", cand.RecordID),
			cand.CanonicalPN,
			string(cand.MatchKind),
			cand.Tier.String(),
			cand.Via,
			strings.Join(originStrings(cand), ","),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"", "ID", "PN", "Match", "Tier", "Via", "Keys"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

func originStrings(cand linker.Candidate) []string {
	out := make([]string, 0, len(cand.OriginKeys))
	for _, origin := range cand.OriginKeys {
		out = append(out, string(origin))
	}
	return out
}

// describeError prefixes the message with the error taxonomy bucket so
// operators can tell a bad input from a bridge outage at a glance.
func describeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[%s] %w", services.KindOf(err), err)
}
