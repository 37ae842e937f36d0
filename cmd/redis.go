package cmd

import (
	"context"
	"fmt"
	"time"

	"Scrubline/cache"
	"Scrubline/db"

	"github.com/spf13/cobra"
)

var redisInvalidate []string

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the timeline cache",
	Long:  `Ping the Redis timeline cache and optionally drop cached tracks with --invalidate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RedisHost == "" {
			return fmt.Errorf("REDIS_HOST is not set")
		}
		if err := db.ConnectRedis(cfg); err != nil {
			return err
		}
		defer db.CloseRedis()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "redis %s:%s db %d reachable\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		timelines := cache.NewTimelineCache(db.RedisClient, cfg.TimelineCacheTTL)
		for _, id := range redisInvalidate {
			if err := timelines.Invalidate(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "invalidated %s\n", cache.TimelineKey(id))
		}
		return nil
	},
}

func init() {
	redisCmd.Flags().StringSliceVar(&redisInvalidate, "invalidate", nil, "track ids to drop from the cache")
	rootCmd.AddCommand(redisCmd)
}
