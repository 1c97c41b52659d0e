package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/amonks/tasktree/api"
	"github.com/amonks/tasktree/bridge"
	"github.com/amonks/tasktree/internal/filterflags"
	"github.com/amonks/tasktree/internal/metrics"
	"github.com/amonks/tasktree/internal/tasktui"
	"github.com/amonks/tasktree/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API and web UI",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the task tools over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the task tree in a terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var (
	serveAddr    string
	browseFilter filterflags.Flags
)

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd, browseCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, then 127.0.0.1:5000)")
	filterflags.Add(browseCmd, &browseFilter)
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "tt: ", log.LstdFlags)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	recorder := metrics.NewPrometheusRecorder()
	store, err := openStore(cfg, recorder)
	if err != nil {
		return err
	}

	logger := newLogger()
	padding := cfg.PaddingDays()
	gin.SetMode(gin.ReleaseMode)

	server, err := api.NewServer(api.ServerOptions{
		Store: store,
		Web: web.NewHandler(web.Options{
			Store:       store,
			PaddingDays: padding,
			Logger:      logger,
		}),
		Metrics:     recorder,
		PaddingDays: padding,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServerAddr()
	}
	return server.Serve(cmd.Context(), addr)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg, nil)
	if err != nil {
		return err
	}

	b, err := bridge.New(bridge.Options{
		Store:       store,
		PaddingDays: cfg.PaddingDays(),
		Version:     buildVersion,
		Logger:      newLogger(),
	})
	if err != nil {
		return err
	}
	return b.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func runBrowse(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	filter, err := browseFilter.Filter(store)
	if err != nil {
		return err
	}
	return tasktui.Run(cmd.Context(), store, tasktui.Options{Filter: filter})
}
