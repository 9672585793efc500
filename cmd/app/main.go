package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/othala/internal"
	pkgconfig "github.com/starford/othala/pkg/config"
)

// loadConfig builds the configuration from defaults plus the config file.
// The file is only required when --config was given explicitly; the default
// path may simply not exist.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	path := cmd.String("config")
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, nil
	}
	if _, err := pkgconfig.LoadIfPresent(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, cfg); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func syncVault(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rpt, err := internal.RunSync(ctx, cfg, cmd.Bool("dry-run"), cmd.Bool("force"))
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(rpt, "", "  ")
	fmt.Println(string(out))
	return nil
}

func checkVault(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rpt, err := internal.RunCheck(ctx, cfg)
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(rpt, "", "  ")
	fmt.Println(string(out))

	if rpt.Stats.Changed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d notes diverge from their folder position",
			rpt.Stats.Changed, rpt.Stats.Files), 1)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, cfg)
}

func main() {
	cmd := &cli.Command{
		Name:   "othala",
		Usage:  "Curriculum vault server that keeps hierarchy frontmatter aligned with the folder structure",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server, file watcher, and SSE broker",
				Action: serve,
			},
			{
				Name:  "sync",
				Usage: "Reconcile hierarchy frontmatter and refresh the search index once",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report divergence without writing anything",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Clear the index first so every note is re-read",
					},
				},
				Action: syncVault,
			},
			{
				Name:   "check",
				Usage:  "Exit non-zero when any note's frontmatter diverges from its folder position",
				Action: checkVault,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tool interface on stdin/stdout",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
