package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/mocka2a/internal/a2a"
	"github.com/dusk-indust/mocka2a/internal/agent"
	"github.com/dusk-indust/mocka2a/internal/config"
	"github.com/dusk-indust/mocka2a/internal/mcptools"
	"github.com/dusk-indust/mocka2a/internal/telemetry"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigPath string
	Port       int
	Bind       string
	LogLevel   string
	LogFormat  string
	MCPAddr    string
	Metrics    bool
	Version    bool
}

// version is set by goreleaser at build time.
var version = "dev"

const (
	shutdownTimeout = 5 * time.Second

	// bridgeTimeout bounds each A2A call made on behalf of an MCP tool.
	bridgeTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, showVersion, err := parseConfig(args)
	if err != nil {
		return err
	}
	if showVersion {
		fmt.Fprintln(stdout, version)
		return nil
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var metrics *telemetry.Metrics
	if cfg.Metrics {
		metrics = telemetry.NewMetrics()
	}

	mock := agent.New(buildCard(cfg), agent.WithLogger(logger), agent.WithMetrics(metrics))
	if err := mock.Start(ctx, cfg.ListenAddr()); err != nil {
		return err
	}
	srv := mock.Server()
	printBanner(stdout, mock.Card(), srv.Addr())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case err := <-srv.Done():
			if err != nil {
				return fmt.Errorf("a2a server: %w", err)
			}
			return nil
		}
		fmt.Fprintln(stdout, "\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return mock.Stop(shutdownCtx)
	})

	if cfg.MCPAddr != "" {
		svc := mcptools.NewA2AService(a2a.NewHTTPClient(a2a.WithTimeout(bridgeTimeout)), localURL(srv.Addr()))
		g.Go(func() error {
			logger.Info("mcp bridge listening", zap.String("addr", cfg.MCPAddr))
			return mcptools.RunMCPServer(gctx, svc, cfg.MCPAddr, version)
		})
	}

	err = g.Wait()
	logger.Info("stopped")
	return err
}

// parseConfig loads the optional config file and applies explicitly set
// flags on top of it.
func parseConfig(args []string) (*config.Config, bool, error) {
	var flags cliFlags

	fs := flag.NewFlagSet("mock-a2a", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigPath, "config", "", "path to a YAML config file")
	fs.IntVar(&flags.Port, "port", config.DefaultPort, "port to listen on")
	fs.StringVar(&flags.Bind, "bind", config.DefaultBind, "address to bind")
	fs.StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&flags.LogFormat, "log-format", telemetry.FormatJSON, "log format: json or console")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "", "serve the MCP bridge on this address (disabled when empty)")
	fs.BoolVar(&flags.Metrics, "metrics", false, "expose Prometheus metrics at /metrics")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if flags.Version {
		return nil, true, nil
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, false, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = flags.Port
		case "bind":
			cfg.Bind = flags.Bind
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "log-format":
			cfg.LogFormat = flags.LogFormat
		case "mcp-addr":
			cfg.MCPAddr = flags.MCPAddr
		case "metrics":
			cfg.Metrics = flags.Metrics
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

// buildCard applies the config overrides to the default agent card.
func buildCard(cfg *config.Config) a2a.AgentCard {
	card := agent.DefaultCard(cfg.AgentURL())
	if cfg.Agent.Name != "" {
		card.Name = cfg.Agent.Name
	}
	if cfg.Agent.Description != "" {
		card.Description = cfg.Agent.Description
	}
	if cfg.Agent.Version != "" {
		card.Version = cfg.Agent.Version
	}
	if cfg.Agent.Organization != "" {
		card.Provider = &a2a.AgentProvider{Organization: cfg.Agent.Organization}
	}
	return card
}

// localURL turns a bound listen address into a URL reachable from this
// host.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func printBanner(w io.Writer, card a2a.AgentCard, addr string) {
	base := localURL(addr)
	fmt.Fprintf(w, "\n%s\n", card.Name)
	fmt.Fprintf(w, "  Listening on: %s\n", base)
	fmt.Fprintf(w, "  Agent Card:   %s%s\n", base, a2a.AgentCardPath)
	fmt.Fprintln(w, "  Skills:")
	for _, sk := range card.Skills {
		fmt.Fprintf(w, "    - %s: %s\n", sk.ID, sk.Description)
	}
	fmt.Fprintln(w, "  Press Ctrl+C to stop")
	fmt.Fprintln(w)
}
