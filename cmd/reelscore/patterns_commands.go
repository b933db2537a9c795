package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelscore/internal/patterns"
	"reelscore/internal/store"
)

func newPatternsCommand(ctx *commandContext) *cobra.Command {
	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage mined viral patterns",
	}

	patternsCmd.AddCommand(newPatternsListCommand(ctx))
	patternsCmd.AddCommand(newPatternsAddCommand(ctx))
	patternsCmd.AddCommand(newPatternsMatchesCommand(ctx))

	return patternsCmd
}

func newPatternsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored pattern definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				rows, version, err := st.LoadPatterns(cmd.Context())
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No patterns stored")
					return nil
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, map[string]any{"version": version, "patterns": rows})
				}
				display := make([][]string, 0, len(rows))
				for _, row := range rows {
					status := "active"
					if _, err := patterns.ParsePredicate([]byte(row.PredicateJSON)); err != nil {
						status = "broken predicate"
					}
					display = append(display, []string{
						row.PatternID,
						row.Name,
						fmt.Sprintf("%.2f", row.Confidence),
						strconv.Itoa(row.SampleSize),
						strconv.Itoa(row.Version),
						status,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Confidence", "Samples", "Version", "Status"},
					display,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				fmt.Fprintf(out, "Snapshot version: %d\n", version)
				return nil
			})
		},
	}
}

func newPatternsAddCommand(ctx *commandContext) *cobra.Command {
	var (
		name          string
		confidence    float64
		samples       int
		predicate     string
		predicateFile string
	)

	cmd := &cobra.Command{
		Use:   "add <pattern-id>",
		Short: "Add or update a pattern definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(predicate)
			if predicateFile != "" {
				data, err := os.ReadFile(predicateFile)
				if err != nil {
					return fmt.Errorf("read predicate file: %w", err)
				}
				raw = strings.TrimSpace(string(data))
			}
			if raw == "" {
				return fmt.Errorf("a predicate is required (--predicate or --predicate-file)")
			}
			// Validate up front so a broken predicate never reaches the store.
			if _, err := patterns.ParsePredicate([]byte(raw)); err != nil {
				return fmt.Errorf("invalid predicate: %w", err)
			}

			return ctx.withStore(func(st *store.Store) error {
				_, version, err := st.LoadPatterns(cmd.Context())
				if err != nil {
					return err
				}
				row := store.PatternRow{
					PatternID:     args[0],
					Name:          name,
					Confidence:    confidence,
					SampleSize:    samples,
					PredicateJSON: raw,
					Version:       version + 1,
					UpdatedAt:     time.Now().UTC(),
				}
				if err := st.UpsertPattern(cmd.Context(), row); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored pattern %s (snapshot version %d)\n", args[0], row.Version)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Human-readable pattern name")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "Mining confidence in [0,1]")
	cmd.Flags().IntVar(&samples, "samples", 0, "Number of videos the pattern was mined from")
	cmd.Flags().StringVar(&predicate, "predicate", "", "Predicate conditions as a JSON array")
	cmd.Flags().StringVar(&predicateFile, "predicate-file", "", "Read the predicate JSON from a file")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPatternsMatchesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "matches <video-id>",
		Short: "Show which patterns a video matched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				rows, err := st.MatchesForVideo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No pattern matches for %s\n", args[0])
					return nil
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, rows)
				}
				display := make([][]string, 0, len(rows))
				for _, row := range rows {
					display = append(display, []string{
						row.PatternID,
						fmt.Sprintf("%.2f", row.Strength),
						strconv.Itoa(row.SnapshotVersion),
						row.ComputedAt.Format(time.RFC3339),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Pattern", "Strength", "Snapshot", "Computed"},
					display,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}
