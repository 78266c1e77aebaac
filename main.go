// Command memory-match runs the memory match game.
//
// Commands:
//  1. serve (default): HTTP server with the REST API, WebSocket push, the
//     browser client and an /mcp endpoint, optionally behind an ngrok tunnel
//  2. mcp: MCP stdio server; reuses a running server or starts an internal one
//  3. play: terminal client driving a local game
//  4. validate: checks a directory of preset files
//
// Settings are read from $HOME/.config/memory-match/config.yml (or --config),
// MEMORY_* environment variables and a .env file. Flags win over all of them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Memory Match"
)

func main() {
	// A missing .env file is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "memory-match",
		Usage:                 "a memory matching card game for browsers, terminals and AI agents",
		Version:               Version,
		DefaultCommand:        "serve",
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "run the HTTP server with API, WebSocket, web client and MCP endpoint",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel"},
					&cli.StringFlag{Name: "ngrok-authtoken", Usage: "ngrok auth token (or NGROK_AUTHTOKEN)"},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain"},
				},
				Action: withConfig(runServe),
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server backed by the REST API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Usage: "REST API to proxy (default: probe host:port, else start an internal server)"},
				},
				Action: withConfig(runMCP),
			},
			{
				Name:  "play",
				Usage: "play in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Usage: "preset to play"},
					&cli.IntFlag{Name: "pairs", Usage: "number of pairs (6, 8, 12 or 18)"},
					&cli.Uint64Flag{Name: "seed", Usage: "shuffle seed for a reproducible deck"},
				},
				Action: withConfig(runPlay),
			},
			{
				Name:      "validate",
				Usage:     "validate preset files",
				ArgsUsage: "[dir]",
				Action:    withConfig(runValidate),
			},
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (default is $HOME/.config/memory-match/config.yml)"},
		&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP server port"},
		&cli.StringFlag{Name: "presets-dir", Usage: "directory of preset files (default: built-in presets)"},
		&cli.StringFlag{Name: "default-preset", Usage: "preset used when a session names none"},
		&cli.DurationFlag{Name: "mismatch-delay", Usage: "how long a mismatched pair stays visible"},
		&cli.DurationFlag{Name: "session-ttl", Usage: "idle time before a session expires"},
		&cli.StringSliceFlag{Name: "allowed-origins", Usage: "origins allowed for CORS and WebSocket"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.BoolFlag{Name: "pretty", Usage: "human readable logs"},
	}
}

// withConfig loads settings, applies flag overrides and sets up logging
// before running action.
func withConfig(action func(context.Context, *cli.Command, appConfig) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd.String("config"))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		applyFlags(cmd, &cfg)
		if err := cfg.validate(); err != nil {
			return err
		}
		setupLogging(cfg, os.Stderr)
		return action(ctx, cmd, cfg)
	}
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cli.Command, cfg *appConfig) {
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("presets-dir") {
		cfg.PresetsDir = cmd.String("presets-dir")
	}
	if cmd.IsSet("default-preset") {
		cfg.DefaultPreset = cmd.String("default-preset")
	}
	if cmd.IsSet("mismatch-delay") {
		cfg.MismatchDelay = cmd.Duration("mismatch-delay")
	}
	if cmd.IsSet("session-ttl") {
		cfg.SessionTTL = cmd.Duration("session-ttl")
	}
	if cmd.IsSet("allowed-origins") {
		cfg.AllowedOrigins = cmd.StringSlice("allowed-origins")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("pretty") {
		cfg.PrettyLogs = cmd.Bool("pretty")
	}
	if cmd.IsSet("ngrok") {
		cfg.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-authtoken") {
		cfg.NgrokAuthtoken = cmd.String("ngrok-authtoken")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.NgrokDomain = cmd.String("ngrok-domain")
	}
}
