package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"synapse-digest/internal/redisclient"
	"synapse-digest/internal/storage"

	"github.com/spf13/cobra"
)

// storeCmd groups device store subcommands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Device store utilities",
}

// pingCmd checks the configured device store.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the device store (PONG for redis)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		if strings.ToLower(cfg.Store.Driver) != "redis" {
			kv, closeKV, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeKV()
			if _, err := kv.Get(ctx, "ping"); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store OK\n", cfg.Store.Driver)
			return nil
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	storeCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(storeCmd)
}
