package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lizet96/clinic-registry/client"
	"github.com/lizet96/clinic-registry/fixtures"
)

func generateCmd() *cobra.Command {
	var (
		count int
		out   string
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random demo doctors to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			doctors := fixtures.NewGenerator(seed).Doctors(count)
			if err := fixtures.WriteFile(out, doctors); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d doctors to %s\n", len(doctors), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", fixtures.DefaultCount, "number of doctors")
	cmd.Flags().StringVar(&out, "out", fixtures.DefaultFile, "output file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (random when unset)")
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Replace the registry contents with doctors from a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cfg.LoggerTo(os.Stderr)

			path := fixtures.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			doctors, err := fixtures.ReadFile(path)
			if err != nil {
				return err
			}

			api := client.New(cfg.APIURL, client.WithTimeout(cfg.ClientTimeout))
			if err := api.ReplaceDoctors(cmd.Context(), doctors); err != nil {
				logger.Error().Err(err).Str("api", api.BaseURL()).Msg("seed failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d doctors from %s\n", len(doctors), path)
			return nil
		},
	}
	return cmd
}
