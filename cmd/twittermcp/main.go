package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"twittermcp/internal/config"
	"twittermcp/internal/logging"
	"twittermcp/internal/mcp"
	"twittermcp/internal/metrics"
	"twittermcp/internal/theme"
	"twittermcp/internal/tools"
	"twittermcp/internal/twitter"
	"twittermcp/internal/xclient"
)

const serverName = "twitter-mcp-server"

var version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "twittermcp",
	Short: "Model Context Protocol server exposing X (Twitter) tools",
	Long: theme.Banner() + `
twittermcp serves post_tweet, search_tweets, get_timeline and
get_rate_limit_info to an MCP client over stdin/stdout.

Credentials come from TWITTER_API_KEY, TWITTER_API_SECRET,
TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_TOKEN_SECRET and TWITTER_BEARER_TOKEN,
optionally layered over a YAML file given with --config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tools over stdio (default)",
	RunE:  runServe,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tools.Catalog())
	},
}

var initPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config template",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(initPath, config.Default()); err != nil {
			return err
		}
		abs, _ := filepath.Abs(initPath)
		fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
		return nil
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("TWITTERMCP_CONFIG"), "optional YAML config file (env vars take precedence)")
	initCmd.Flags().StringVar(&initPath, "path", "./twittermcp.yaml", "path to write config")
	rootCmd.AddCommand(serveCmd, toolsCmd, initCmd)
}

func main() {
	code := 0
	defer func() {
		if p := recover(); p != nil {
			logging.Error("Uncaught exception", map[string]any{"error": fmt.Sprint(p)})
			code = 1
		}
		logging.Sync()
		os.Exit(code)
	}()
	code = execute(context.Background(), os.Args[1:])
}

// execute runs the root command and maps its outcome to a process exit code.
func execute(ctx context.Context, args []string) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error("Application failed", map[string]any{"error": err.Error()})
		return 1
	}
	return 0
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		var ce *config.ConfigurationError
		if errors.As(err, &ce) {
			return fmt.Errorf("environment validation error: %w", err)
		}
		return err
	}
	if err := logging.Init(cfg.Server.LogLevel, cfg.IsDevelopment()); err != nil {
		return err
	}
	logging.Info("Starting Twitter MCP Server", map[string]any{
		"env":                     cfg.Server.Env,
		"rate_limit_window_ms":    cfg.RateLimit.WindowMS,
		"rate_limit_max_requests": cfg.RateLimit.MaxRequests,
	})
	if cfg.API.TimeoutMS == 0 {
		logging.Debug("upstream requests have no timeout", map[string]any{"hint": "set X_API_TIMEOUT_MS"})
	}

	client := xclient.NewHTTPClient(cfg.API.BaseURL, xclient.Credentials{
		ConsumerKey:    cfg.Credentials.APIKey,
		ConsumerSecret: cfg.Credentials.APISecret,
		AccessToken:    cfg.Credentials.AccessToken,
		AccessSecret:   cfg.Credentials.AccessTokenSecret,
		BearerToken:    cfg.Credentials.BearerToken,
	}, time.Duration(cfg.API.TimeoutMS)*time.Millisecond)
	svc := twitter.NewService(client, time.Now())
	srv := mcp.NewServer(mcp.ServerInfo{Name: serverName, Version: version}, tools.Catalog(), tools.NewDispatcher(svc))

	if ms := metrics.StartServer(cfg.Metrics.Addr, func(err error) {
		logging.Error("metrics server failed", map[string]any{"error": err.Error()})
	}); ms != nil {
		defer ms.Close()
		logging.Info("metrics server listening", map[string]any{"addr": cfg.Metrics.Addr})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Twitter MCP server started", nil)
	err = srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if ctx.Err() != nil {
		logging.Info("Signal received, shutting down gracefully", nil)
		return nil
	}
	if err != nil {
		return err
	}
	logging.Info("Input closed, shutting down", nil)
	return nil
}
