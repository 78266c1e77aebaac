package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/memory-match/api"
	"github.com/wricardo/memory-match/game/config"
	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
	"github.com/wricardo/memory-match/game/session"
	"github.com/wricardo/memory-match/transport/mcp"
	"github.com/wricardo/memory-match/transport/websocket"
	"github.com/wricardo/memory-match/tui"
)

const shutdownTimeout = 10 * time.Second

// stack is the wired server side: presets, sessions, the game service and
// the push hub feeding WebSocket clients.
type stack struct {
	configs  *config.Manager
	sessions *session.Manager
	service  service.GameService
	hub      *websocket.Hub
}

func newStack(cfg appConfig) (*stack, error) {
	configs, err := config.NewManager(cfg.PresetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if cfg.DefaultPreset != "" {
		if err := configs.SetDefault(cfg.DefaultPreset); err != nil {
			return nil, fmt.Errorf("default preset: %w", err)
		}
	}

	hub := websocket.NewHub(websocket.WithAllowedOrigins(cfg.AllowedOrigins))
	sessions := session.NewManager(session.WithEventSink(hub))
	svc := service.NewGameService(sessions, configs, service.WithMismatchDelay(cfg.MismatchDelay))

	return &stack{configs: configs, sessions: sessions, service: svc, hub: hub}, nil
}

// handler returns the HTTP API. mcpURL, when set, mounts an MCP endpoint
// proxying to that API.
func (s *stack) handler(cfg appConfig, mcpURL string) http.Handler {
	opts := []api.Option{api.WithAllowedOrigins(cfg.AllowedOrigins)}
	if mcpURL != "" {
		opts = append(opts, api.WithMCPServer(mcp.NewClient(mcpURL).GetMCPServer()))
	}
	return api.NewServer(s.service, s.hub, opts...)
}

func runServe(ctx context.Context, cmd *cli.Command, cfg appConfig) error {
	st, err := newStack(cfg)
	if err != nil {
		return err
	}
	defer st.sessions.CloseAll()

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}
	addr := listener.Addr().String()
	handler := st.handler(cfg, "http://"+addr)

	log.Info().
		Str("version", Version).
		Str("presets", st.configs.Source()).
		Dur("mismatch_delay", cfg.MismatchDelay).
		Msgf("Starting %s", AppName)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st.hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		cleanupLoop(ctx, st.sessions, cfg.CleanupInterval, cfg.SessionTTL)
		return nil
	})

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("Game UI: http://%s/", addr)
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)
		return serveHTTP(ctx, listener, handler)
	})

	if cfg.NgrokEnabled {
		g.Go(func() error {
			return serveNgrok(ctx, cfg, handler)
		})
	}

	err = g.Wait()
	log.Info().Msg("Server stopped")
	return err
}

// serveHTTP serves handler on l until ctx is cancelled, then shuts down
// gracefully.
func serveHTTP(ctx context.Context, l net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown error")
	}
	return nil
}

// serveNgrok exposes handler through an ngrok tunnel. Tunnel failures are
// logged and do not stop the local server.
func serveNgrok(ctx context.Context, cfg appConfig, handler http.Handler) error {
	if cfg.NgrokAuthtoken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-authtoken, MEMORY_NGROK_AUTHTOKEN or NGROK_AUTHTOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Info().Str("domain", cfg.NgrokDomain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthtoken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return nil
	}

	url := tun.URL()
	log.Info().Str("url", url).Msg("🚀 Ngrok tunnel established")
	log.Info().Msgf("  Game UI (ngrok): %s/", url)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", url)

	if err := serveHTTP(ctx, tun, handler); err != nil {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
	return nil
}

// cleanupLoop periodically closes sessions idle for longer than ttl.
func cleanupLoop(ctx context.Context, sessions *session.Manager, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Msg("Cleaned up expired sessions")
			}
		}
	}
}

// runMCP serves MCP over stdio. It proxies to --api-url, or to a server
// already running at host:port, or to an internal server on a random
// loopback port.
func runMCP(ctx context.Context, cmd *cli.Command, cfg appConfig) error {
	baseURL := strings.TrimRight(cmd.String("api-url"), "/")

	if baseURL == "" {
		log.Info().Str("url", cfg.BaseURL()).Msg("Checking for external API server")
		if probeAPI(ctx, cfg.BaseURL()) {
			log.Info().Str("url", cfg.BaseURL()).Msg("External API server found, using it for MCP")
			baseURL = cfg.BaseURL()
		}
	}

	if baseURL == "" {
		st, err := newStack(cfg)
		if err != nil {
			return err
		}
		defer st.sessions.CloseAll()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()
		log.Info().Str("url", baseURL).Msg("Starting internal HTTP server for MCP stdio")

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go st.hub.Run(ctx)
		go cleanupLoop(ctx, st.sessions, cfg.CleanupInterval, cfg.SessionTTL)
		go func() {
			if err := serveHTTP(ctx, listener, st.handler(cfg, "")); err != nil {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// probeAPI reports whether a memory match server answers at baseURL.
func probeAPI(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func runPlay(ctx context.Context, cmd *cli.Command, cfg appConfig) error {
	configs, err := config.NewManager(cfg.PresetsDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	preset := cmd.String("preset")
	if preset == "" {
		preset = cfg.DefaultPreset
	}
	gameConfig := configs.GetDefault()
	if preset != "" {
		if gameConfig, err = configs.LoadConfig(preset); err != nil {
			return err
		}
	}
	if pairs := cmd.Int("pairs"); pairs != 0 {
		sized := *gameConfig
		sized.PairCount = pairs
		gameConfig = &sized
	}

	var opts []engine.Option
	if gameConfig.MismatchDelayMS == 0 {
		opts = append(opts, engine.WithMismatchDelay(cfg.MismatchDelay))
	}
	if cmd.IsSet("seed") {
		opts = append(opts, engine.WithRand(engine.NewSeededRand(cmd.Uint64("seed"))))
	}

	// The alternate screen owns the terminal; keep only warnings.
	if zerolog.GlobalLevel() < zerolog.WarnLevel {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	return tui.Run(gameConfig, opts...)
}

func runValidate(ctx context.Context, cmd *cli.Command, cfg appConfig) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = cfg.PresetsDir
	}
	results, err := config.ValidateDir(dir)
	if err != nil {
		return err
	}
	if !printValidation(cmd.Root().Writer, results) {
		return cli.Exit("❌ Some presets have errors", 1)
	}
	return nil
}

// printValidation writes a per-file report and reports whether every file
// was valid.
func printValidation(w io.Writer, results []config.ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}
		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "No preset files found")
	case allValid:
		fmt.Fprintln(w, "✅ All presets are valid!")
	}
	return allValid
}
