package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/config"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/logger"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "mocha",
		Short:         "Borrower onboarding harness for new-core environments",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(envCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(dbCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// runtime is what every subcommand needs before it touches the network.
type runtime struct {
	cfg      config.Config
	log      *slog.Logger
	resolver *environment.Resolver
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logging)

	opts := []environment.Option{environment.WithBaseURLOverride(cfg.BaseURLOverride)}
	if cfg.EnvFile != "" {
		templates, err := environment.LoadTemplates(cfg.EnvFile, cfg.Env)
		if err != nil {
			return nil, err
		}
		opts = append(opts, environment.WithTemplates(templates))
	}
	resolver, err := environment.New(cfg.Env, opts...)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, resolver: resolver}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
