package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelscore/internal/config"
	"reelscore/internal/scoring"
	"reelscore/internal/store"
)

func newScoreCommand(ctx *commandContext) *cobra.Command {
	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Pre- and post-publish viral scores",
	}

	scoreCmd.AddCommand(newScorePreCommand(ctx))
	scoreCmd.AddCommand(newScorePostCommand(ctx))
	scoreCmd.AddCommand(newScoreHistoryCommand(ctx))

	return scoreCmd
}

func newScorePreCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pre <video-id>",
		Short: "Show the stored pre-publish score for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				score, confidence, ok, err := st.GetPreScore(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no pre-publish score recorded for %s; run `reelscore analyze` first", args[0])
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, map[string]any{
						"video_id":   args[0],
						"score":      score,
						"confidence": confidence,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Video: %s\n", args[0])
				fmt.Fprintf(out, "Pre-publish score: %d\n", score)
				fmt.Fprintf(out, "Confidence: %.2f\n", confidence)
				return nil
			})
		},
	}
}

func newScorePostCommand(ctx *commandContext) *cobra.Command {
	var (
		videoID     string
		platform    string
		contentType string
		followers   int64
		views       int64
		likes       int64
		comments    int64
		shares      int64
		saves       int64
		postedAt    string
		observedAt  string
	)

	cmd := &cobra.Command{
		Use:   "post <post-id>",
		Short: "Record a metrics checkback and compute its post-publish score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posted, err := time.Parse(time.RFC3339, postedAt)
			if err != nil {
				return fmt.Errorf("parse --posted-at: %w", err)
			}
			observed := time.Now().UTC()
			if strings.TrimSpace(observedAt) != "" {
				observed, err = time.Parse(time.RFC3339, observedAt)
				if err != nil {
					return fmt.Errorf("parse --observed-at: %w", err)
				}
			}
			if observed.Before(posted) {
				return errors.New("observation predates the post itself; check --posted-at and --observed-at")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			platformKey := strings.ToLower(strings.TrimSpace(platform))
			baseline, ok := cfg.Scoring.Platforms[platformKey]
			if !ok {
				return fmt.Errorf("unknown platform %q (configured: %s)", platform, knownPlatforms(cfg.Scoring.Platforms))
			}

			metrics := scoring.ObservedMetrics{
				PostID:      args[0],
				VideoID:     videoID,
				Platform:    platformKey,
				ContentType: strings.ToLower(strings.TrimSpace(contentType)),
				Followers:   followers,
				Views:       views,
				Likes:       likes,
				Comments:    comments,
				Shares:      shares,
				Saves:       saves,
				PostedAt:    posted,
				ObservedAt:  observed,
			}

			return ctx.withStore(func(st *store.Store) error {
				if metrics.ContentType == "" && metrics.VideoID != "" {
					video, err := st.GetByVideoID(cmd.Context(), metrics.VideoID)
					if err != nil {
						return err
					}
					if video != nil {
						metrics.ContentType = video.ContentType
					}
				}

				if _, err := st.AppendMetrics(cmd.Context(), store.Metrics{
					PostID:      metrics.PostID,
					VideoID:     metrics.VideoID,
					Platform:    metrics.Platform,
					ContentType: metrics.ContentType,
					Followers:   metrics.Followers,
					Views:       metrics.Views,
					Likes:       metrics.Likes,
					Comments:    metrics.Comments,
					Shares:      metrics.Shares,
					Saves:       metrics.Saves,
					PostedAt:    metrics.PostedAt,
					ObservedAt:  metrics.ObservedAt,
				}); err != nil {
					return fmt.Errorf("record metrics: %w", err)
				}

				result := scoring.ComputePost(metrics, baseline, cfg.Scoring.DecayBuckets, scoring.PostWeights{
					Size:     cfg.Weights.PostSize,
					Platform: cfg.Weights.PostPlatform,
					Decay:    cfg.Weights.PostDecay,
				})

				peers, err := st.PeerScores(cmd.Context(), platformKey, metrics.ContentType, metrics.PostID)
				if err != nil {
					return fmt.Errorf("load peer scores: %w", err)
				}

				row := store.PostScoreRow{
					PostID:         metrics.PostID,
					Platform:       platformKey,
					ContentType:    metrics.ContentType,
					Score:          result.Score,
					SizeRatio:      result.SizeRatio,
					EngagementRate: result.EngagementRate,
					DecayWeight:    result.DecayWeight,
					PeerSetSize:    len(peers),
					ObservedAt:     metrics.ObservedAt,
				}
				percentile, haveRank := scoring.RankPercentile(result.Score, peers, cfg.Scoring.MinPeerSet)
				if haveRank {
					row.Percentile = &percentile
				}
				if _, err := st.AppendPostScore(cmd.Context(), row); err != nil {
					return fmt.Errorf("record score: %w", err)
				}

				if ctx.jsonMode() {
					return writeJSON(cmd, row)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Post: %s (%s)\n", metrics.PostID, platformKey)
				fmt.Fprintf(out, "Score: %.1f\n", result.Score)
				fmt.Fprintf(out, "Size ratio: %.3f\n", result.SizeRatio)
				fmt.Fprintf(out, "Engagement rate: %.4f\n", result.EngagementRate)
				fmt.Fprintf(out, "Decay weight: %.2f\n", result.DecayWeight)
				if haveRank {
					fmt.Fprintf(out, "Percentile: %.1f (among %d peers)\n", percentile, len(peers))
				} else {
					fmt.Fprintf(out, "Percentile: unavailable (%d peers, need %d)\n", len(peers), cfg.Scoring.MinPeerSet)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&videoID, "video-id", "", "Analyzed video this post was published from")
	cmd.Flags().StringVar(&platform, "platform", "", "Platform the post was published on")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type grouping peers (default: the analyzed video's)")
	cmd.Flags().Int64Var(&followers, "followers", 0, "Account follower count at observation time")
	cmd.Flags().Int64Var(&views, "views", 0, "Observed view count")
	cmd.Flags().Int64Var(&likes, "likes", 0, "Observed like count")
	cmd.Flags().Int64Var(&comments, "comments", 0, "Observed comment count")
	cmd.Flags().Int64Var(&shares, "shares", 0, "Observed share count")
	cmd.Flags().Int64Var(&saves, "saves", 0, "Observed save count")
	cmd.Flags().StringVar(&postedAt, "posted-at", "", "Publish time, RFC 3339")
	cmd.Flags().StringVar(&observedAt, "observed-at", "", "Observation time, RFC 3339 (default: now)")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("posted-at")

	return cmd
}

func newScoreHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history <post-id>",
		Short: "Show every recorded score for a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				rows, err := st.PostScores(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No scores recorded for %s\n", args[0])
					return nil
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, rows)
				}
				display := make([][]string, 0, len(rows))
				for _, row := range rows {
					percentile := "n/a"
					if row.Percentile != nil {
						percentile = fmt.Sprintf("%.1f", *row.Percentile)
					}
					display = append(display, []string{
						row.ComputedAt.Format(time.RFC3339),
						fmt.Sprintf("%.1f", row.Score),
						fmt.Sprintf("%.3f", row.SizeRatio),
						fmt.Sprintf("%.4f", row.EngagementRate),
						fmt.Sprintf("%.2f", row.DecayWeight),
						percentile,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Computed", "Score", "Size", "Engagement", "Decay", "Percentile"},
					display,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func knownPlatforms(platforms map[string]config.Platform) string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
