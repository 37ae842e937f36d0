package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"Scrubline/core/catalog"
	"Scrubline/storage"

	"github.com/spf13/cobra"
)

var (
	minioPush string
	minioShow string
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Manage timelines stored in MinIO",
	Long: `List the timelines in the MinIO bucket, print one with --show <track>, or
upload a timeline file with --push <file.json>. The track id of a pushed file
is its trackId field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			return err
		}
		source := storage.NewMinioSource(client, cfg.MinioBucket)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		out := cmd.OutOrStdout()

		switch {
		case minioPush != "":
			data, err := os.ReadFile(minioPush)
			if err != nil {
				return err
			}
			var t catalog.Timeline
			if err := json.Unmarshal(data, &t); err != nil {
				return fmt.Errorf("decode %s: %w", minioPush, err)
			}
			if err := source.SaveTimeline(ctx, &t); err != nil {
				return err
			}
			fmt.Fprintf(out, "uploaded %s (%d markers)\n", storage.ObjectName(t.TrackID), len(t.Markers))

		case minioShow != "":
			t, err := source.Timeline(ctx, minioShow)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(t)

		default:
			ids, err := source.List(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			fmt.Fprintf(out, "%d timelines in %s\n", len(ids), cfg.MinioBucket)
		}
		return nil
	},
}

func init() {
	minioCmd.Flags().StringVar(&minioPush, "push", "", "upload a timeline JSON file")
	minioCmd.Flags().StringVar(&minioShow, "show", "", "print the timeline of a track")
	rootCmd.AddCommand(minioCmd)
}
