package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuanbt/livelink/cmd/livelink/tui"
	"github.com/tuanbt/livelink/internal/action"
	"github.com/tuanbt/livelink/internal/auth"
	"github.com/tuanbt/livelink/internal/client"
	"github.com/tuanbt/livelink/internal/config"
	"github.com/tuanbt/livelink/internal/logger"
	"github.com/tuanbt/livelink/internal/overlay"
	"github.com/tuanbt/livelink/internal/report"
	"github.com/tuanbt/livelink/internal/session"
	"github.com/tuanbt/livelink/internal/transport"
	"github.com/tuanbt/livelink/internal/watch"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "livelink.json", "Path to config file")
	serverURL := flag.String("url", "", "Backend websocket URL, overrides the config file")
	withTUI := flag.Bool("tui", false, "Render the overlay in a terminal UI")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nConnects to a build backend and turns its notifications into\nreload actions, status events, and an error/warning overlay.\n")
		fmt.Fprintf(os.Stderr, "\nBoot options ride on the URL query, e.g.:\n")
		fmt.Fprintf(os.Stderr, "  ws://localhost:8080/live?hot=true&overlay={\"errors\":true}\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("livelink %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := run(cfg, *withTUI); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, withTUI bool) error {
	log, levels, cleanup, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer cleanup()

	u, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	opts := config.ResolveQuery(u.Query(), log)
	levels.Set(logger.ParseLevel(opts.LogLevel))

	status := session.NewStatus(os.Getenv("LIVELINK_BUILD"))

	var sink io.Writer = os.Stdout
	if cfg.ReportFile != "" {
		file, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open report file: %w", err)
		}
		defer file.Close()
		sink = file
	}
	var reporter report.Reporter = report.NewWriter(sink)

	var surface overlay.Surface = overlay.NopSurface{}
	var program *tea.Program
	if withTUI {
		program = tea.NewProgram(tui.NewModel(), tea.WithAltScreen())
		bridge := tui.NewBridge(program, reporter)
		surface = bridge
		reporter = bridge
	}

	actions := action.NewRunner(cfg.HotApplyCommand, cfg.ReloadCommand, log)

	c := client.New(opts, status, client.Deps{
		Surface:  surface,
		Actions:  actions,
		Reporter: reporter,
		Logger:   log,
		Levels:   levels,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Teardown: mark the session as unloading before anything is canceled,
	// so in-flight handlers stop triggering reload actions.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		status.MarkUnloading()
		cancel()
	}()

	go c.Run(ctx)

	if len(cfg.WatchPaths) > 0 {
		watcher := watch.New(cfg.WatchPaths, c.Deliver, log)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Error("watcher failed", "error", err)
			}
		}()
	}

	// The reconnect budget is read from the resolved options once, here, at
	// connect time.
	var topts []transport.Option
	if opts.ReconnectDisabled() {
		topts = append(topts, transport.WithReconnectAttempts(0))
	} else if opts.ReconnectAttempts != nil {
		topts = append(topts, transport.WithReconnectAttempts(*opts.ReconnectAttempts))
	}
	if cfg.AuthSecret != "" {
		token, err := auth.NewToken(cfg.AuthSecret, "livelink", time.Hour)
		if err != nil {
			return fmt.Errorf("failed to mint handshake token: %w", err)
		}
		topts = append(topts, transport.WithBearerToken(token))
	}

	if withTUI {
		connErr := make(chan error, 1)
		go func() {
			connErr <- transport.Connect(ctx, cfg.ServerURL, c.Deliver, log, topts...)
			program.Quit()
		}()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("terminal UI failed: %w", err)
		}
		status.MarkUnloading()
		cancel()
		select {
		case err := <-connErr:
			return err
		default:
			return nil
		}
	}

	return transport.Connect(ctx, cfg.ServerURL, c.Deliver, log, topts...)
}
