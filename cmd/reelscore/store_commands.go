package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelscore/internal/store"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Store maintenance and diagnostics",
	}

	storeCmd.AddCommand(newStoreHealthCommand(ctx))
	storeCmd.AddCommand(newStoreStatusCommand(ctx))

	return storeCmd
}

func newStoreHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check store database health (schema, integrity, counts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				health, err := st.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, health)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database path: %s\n", health.DBPath)
				fmt.Fprintf(out, "Database exists: %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(out, "Readable: %s\n", yesNo(health.DatabaseReadable))
				fmt.Fprintf(out, "videos table present: %s\n", yesNo(health.TableExists))
				fmt.Fprintf(out, "Integrity check: %s\n", yesNo(health.IntegrityCheck))
				fmt.Fprintf(out, "Total videos: %d\n", health.TotalVideos)
				if health.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", health.Error)
				}
				return nil
			})
		},
	}
}

func newStoreStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show video counts per lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				summary, err := st.Health(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, summary)
				}
				rows := [][]string{
					{"pending", fmt.Sprintf("%d", summary.Pending)},
					{"processing", fmt.Sprintf("%d", summary.Processing)},
					{"review", fmt.Sprintf("%d", summary.Review)},
					{"failed", fmt.Sprintf("%d", summary.Failed)},
					{"completed", fmt.Sprintf("%d", summary.Completed)},
					{"total", fmt.Sprintf("%d", summary.Total)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"State", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
