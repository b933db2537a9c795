package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelscore/internal/batch"
	"reelscore/internal/store"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Inspect analyzed videos",
	}

	videosCmd.AddCommand(newVideosListCommand(ctx))
	videosCmd.AddCommand(newVideosShowCommand(ctx))
	videosCmd.AddCommand(newVideosResetCommand(ctx))

	return videosCmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []store.Status
			for _, raw := range listStatuses {
				status, ok := store.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q (known: %s)", raw, joinStatuses())
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(st *store.Store) error {
				videos, err := st.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(videos) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No videos found")
					return nil
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, videos)
				}
				rows := make([][]string, 0, len(videos))
				for _, video := range videos {
					note := video.ErrorMessage
					if video.NeedsReview {
						note = video.ReviewReason
					}
					rows = append(rows, []string{
						video.VideoID,
						video.Title,
						video.Platform,
						string(video.Status),
						video.UpdatedAt.Format(time.RFC3339),
						note,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Video", "Title", "Platform", "Status", "Updated", "Note"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by status (repeatable)")
	return cmd
}

func newVideosShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <video-id>",
		Short: "Show one video's analysis in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				video, err := st.GetByVideoID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if video == nil {
					return fmt.Errorf("video %s not found", args[0])
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, video)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Video: %s\n", video.VideoID)
				if video.Title != "" {
					fmt.Fprintf(out, "Title: %s\n", video.Title)
				}
				fmt.Fprintf(out, "Platform: %s\n", video.Platform)
				if video.ContentType != "" {
					fmt.Fprintf(out, "Content type: %s\n", video.ContentType)
				}
				fmt.Fprintf(out, "Status: %s\n", video.Status)
				fmt.Fprintf(out, "Duration: %.1fs\n", video.DurationSeconds)
				if video.BatchID != "" {
					fmt.Fprintf(out, "Batch: %s\n", video.BatchID)
				}
				if video.NeedsReview {
					fmt.Fprintf(out, "Needs review: %s\n", video.ReviewReason)
				}
				if video.ErrorMessage != "" {
					fmt.Fprintf(out, "Error (%s): %s\n", video.ErrorKind, video.ErrorMessage)
				}

				if video.AnalysisJSON != "" {
					var analysis batch.Analysis
					if err := json.Unmarshal([]byte(video.AnalysisJSON), &analysis); err != nil {
						fmt.Fprintf(out, "Analysis record unreadable: %v\n", err)
						return nil
					}
					renderAnalysis(out, analysis)
				}

				matches, err := st.MatchesForVideo(cmd.Context(), video.VideoID)
				if err != nil {
					return err
				}
				if len(matches) > 0 {
					fmt.Fprintln(out, "Pattern matches:")
					for _, match := range matches {
						fmt.Fprintf(out, "  %s  strength %.2f  (snapshot v%d)\n",
							match.PatternID, match.Strength, match.SnapshotVersion)
					}
				}
				return nil
			})
		},
	}
}

func renderAnalysis(out io.Writer, analysis batch.Analysis) {
	fmt.Fprintf(out, "Hook type: %s\n", analysis.Hook)
	fmt.Fprintf(out, "Pre-publish score: %d\n", analysis.PreScore)
	fmt.Fprintf(out, "FATE: focus %.2f, authority %.2f, tribe %.2f, emotion %.2f (combined %.2f)\n",
		analysis.Profile.Focus, analysis.Profile.Authority,
		analysis.Profile.Tribe, analysis.Profile.Emotion, analysis.Profile.FATECombined)
	for _, seg := range analysis.Segments {
		fmt.Fprintf(out, "  %-8s %6.2fs - %6.2fs  clarity %.2f\n",
			seg.Type, seg.Start, seg.End, seg.Clarity)
	}
}

func newVideosResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Return stuck in-flight videos to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				count, err := st.ResetProcessing(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d videos to pending\n", count)
				return nil
			})
		},
	}
}

func joinStatuses() string {
	statuses := store.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}
