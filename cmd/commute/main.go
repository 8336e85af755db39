package main

import (
	"commute-eta-service/internal/app"
	"commute-eta-service/internal/config"
	"commute-eta-service/internal/domain"
	"commute-eta-service/internal/platform/logger"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "commute",
		Short:        "Resolve driving distance and duration between two places",
		SilenceUsage: true,
	}

	root.AddCommand(newETACmd(), newPlacesCmd())
	return root
}

func newETACmd() *cobra.Command {
	var whitelist bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "eta <source> <destination>",
		Short: "Estimate distance and travel time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context())
			if err != nil {
				return err
			}

			var est domain.CommuteEstimate
			if whitelist {
				est, err = a.Service.EstimateKnown(cmd.Context(), args[0], args[1])
			} else {
				est, err = a.Service.Estimate(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"distance":            est.Distance,
					"duration_normal":     est.DurationNormal,
					"duration_in_traffic": est.DurationInTraffic,
					"geometry":            est.Geometry,
				})
			}

			fmt.Fprintf(out, "distance:            %s\n", est.Distance)
			fmt.Fprintf(out, "duration:            %s\n", est.DurationNormal)
			fmt.Fprintf(out, "duration in traffic: %s\n", est.DurationInTraffic)
			fmt.Fprintf(out, "route:               %s/%s, %d points\n", est.Provider, est.Profile, len(est.Geometry))
			return nil
		},
	}

	cmd.Flags().BoolVar(&whitelist, "whitelist", false, "only accept known place names")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the API payload as JSON")
	return cmd
}

func newPlacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "places",
		Short: "List known place names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(a.Service.Places(), "\n"))
			return nil
		},
	}
}

func build(ctx context.Context) (*app.App, error) {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Keep stdout clean for results; diagnostics go to stderr.
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	return app.Build(ctx, cfg, log)
}
