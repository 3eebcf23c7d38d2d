// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resconv/internal/history"
)

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "List recent conversions",
	Long:         `List conversions recorded in the history database (see --history-db or history.db).`,
	SilenceUsage: true,
	RunE:         runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyCmd.Flags().Bool("json", false, "print entries as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	hist, err := openHistory()
	if err != nil {
		return err
	}
	if hist == nil {
		return fmt.Errorf("history is disabled; set --history-db or history.db")
	}
	defer hist.Close()

	entries, err := hist.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return printHistory(cmd.OutOrStdout(), entries)
}

func printHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No conversions recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tDIRECTION\tTIER\tSTATUS\tSOURCE\tDESTINATION")
	for _, e := range entries {
		tier := e.Tier
		if tier == "" {
			tier = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Direction, tier, e.Status, e.Source, e.Destination)
	}
	return tw.Flush()
}
