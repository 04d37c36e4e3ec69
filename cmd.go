package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katasuji/config"
	"katasuji/logging"
	"katasuji/record"
	"katasuji/sgf"
)

const storeTimeout = 10 * time.Second

var (
	cfgPath string

	rootCmd = &cobra.Command{
		Use:          "katasuji",
		Short:        "Analyse Go positions with KataGo in the terminal",
		Version:      Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runPlay,
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Browse game records and analyse them with KataGo (default)",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}

	recordsCmd = &cobra.Command{
		Use:   "records",
		Short: "Manage stored game records",
	}
	recordsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List game records, newest first",
		Args:  cobra.NoArgs,
		RunE:  runRecordsList,
	}
	recordsDeleteCmd = &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a game record",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordsDelete,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"config file (default $XDG_CONFIG_HOME/katasuji/config.json)")

	recordsCmd.AddCommand(recordsListCmd, recordsDeleteCmd)
	rootCmd.AddCommand(playCmd, recordsCmd, configCmd)
}

func loadConfig() error {
	var err error
	cfg, err = config.InitConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

func newLogger() (*zap.SugaredLogger, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log file: %w", err)
	}
	return logging.New(cfg.Log.Level, path)
}

// openStore opens the configured record backend.
func openStore(ctx context.Context, log *zap.SugaredLogger) (record.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		s, err := record.OpenRedis(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := record.OpenBadger(record.BadgerOptions{Path: cfg.StorePath(), Logger: log})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// withStore runs fn against the configured store, for the non-interactive
// subcommands.
func withStore(ctx context.Context, fn func(ctx context.Context, s record.Store) error) error {
	if err := loadConfig(); err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	s, err := openStore(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer s.Close()
	return fn(ctx, s)
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(ctx context.Context, s record.Store) error {
		recs, err := s.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSIZE\tMOVES\tMODIFIED")
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\n",
				r.ID, r.Name, r.Config.Width, r.Config.Height,
				sgf.ParseMoveTree(r.SGF).MoveCount(),
				r.LastModified.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	})
}

func runRecordsDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	return withStore(cmd.Context(), func(ctx context.Context, s record.Store) error {
		if err := s.Delete(ctx, id); err != nil {
			if errors.Is(err, record.ErrNotFound) {
				return fmt.Errorf("no record with id %s", id)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		return nil
	})
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
