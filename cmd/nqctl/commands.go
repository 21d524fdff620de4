package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"nq-browser/internal/app"
	"nq-browser/internal/common/pagination"
	"nq-browser/internal/config"
	hdataset "nq-browser/internal/handler/http/dataset"
	"nq-browser/internal/observability/logging"
	"nq-browser/internal/usecase/normalize"
)

// globalFlags override the loaded configuration when set.
type globalFlags struct {
	configPath string
	backend    string
	dsn        string
	dataDir    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "nqctl",
		Short: "Browse question answering datasets from the command line",
		Long: `nqctl reads the same datasets as the API server and prints JSON.

Datasets come from the configured backend: SQLite or PostgreSQL tables whose
name starts with the table prefix, or a directory of Parquet files.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&g.backend, "backend", "", "Backend kind (sqlite, postgres, parquet-materialized, parquet-streaming)")
	rootCmd.PersistentFlags().StringVar(&g.dsn, "dsn", "", "Database DSN for relational backends")
	rootCmd.PersistentFlags().StringVar(&g.dataDir, "data-dir", "", "Directory of Parquet files for columnar backends")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log to stderr at debug level")

	rootCmd.AddCommand(datasetsCmd(&g))
	rootCmd.AddCommand(countCmd(&g))
	rootCmd.AddCommand(pageCmd(&g))

	return rootCmd
}

// open loads the configuration, applies flag overrides and opens the backend.
func (g *globalFlags) open(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.backend != "" {
		cfg.Backend.Kind = g.backend
	}
	if g.dsn != "" {
		cfg.Backend.DSN = g.dsn
	}
	if g.dataDir != "" {
		cfg.Backend.DataDir = g.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(cmd.ErrOrStderr(), "text", level)

	return app.New(ctx, cfg, logger)
}

func datasetsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List datasets and the default one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			listing := a.Service.Datasets()
			ids := listing.IDs
			if ids == nil {
				ids = []string{}
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"datasets": ids,
				"default":  listing.Default,
			})
		},
	}
}

func countCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "count <dataset>",
		Short: "Print the record count of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			n, err := a.Service.Count(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"dataset_id":   args[0],
				"totalRecords": n,
			})
		},
	}
}

func pageCmd(g *globalFlags) *cobra.Command {
	var (
		page     int
		pageSize int
		strategy string
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "page <dataset>",
		Short: "Print one normalized page of a dataset",
		Long: `Print one page of a dataset in the same JSON shape as GET /data.

The normalizer defaults to the configured strategy. --raw prints the records
as stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			norm := a.Normalizer
			switch {
			case raw:
				norm, err = normalize.New(normalize.None, a.Config.NormalizeOptions())
			case strategy != "":
				norm, err = normalize.New(strategy, a.Config.NormalizeOptions())
			}
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("page-size") {
				pageSize = a.Config.Pagination.DefaultPageSize
			}

			p, err := a.Service.GetPage(cmd.Context(), args[0], page, pageSize)
			if err != nil {
				return err
			}
			p = normalize.Page(cmd.Context(), norm, p)

			dtos := make([]hdataset.RecordDTO, 0, len(p.Records))
			for _, rec := range p.Records {
				dtos = append(dtos, hdataset.RecordDTO{
					Question:     rec.Question,
					LongAnswers:  rec.LongAnswers,
					ShortAnswers: rec.ShortAnswers,
				})
			}
			return printJSON(cmd.OutOrStdout(),
				pagination.NewResponse(dtos, pagination.NewMetadata(p.TotalRecords, p.Page, p.PageSize)))
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "Records per page")
	cmd.Flags().StringVarP(&strategy, "normalizer", "n", "", "Normalizer strategy (structural, casing, none)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print records without normalization")
	cmd.MarkFlagsMutuallyExclusive("normalizer", "raw")

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
