package cli

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/api"
	"github.com/aezell/crev/internal/session"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server exposing the crev review engine.

Endpoints:
  GET  /health            Health check
  POST /api/reviews       Review an uploaded file (JSON or multipart "file")
  GET  /api/reviews       Review history, newest first
  GET  /api/reviews/{id}  One complete review
  GET  /api/languages     Extension to language table
  GET  /api/ws            WebSocket for interactive review sessions`,
		RunE: runServe,
	}
	cmd.Flags().StringP("addr", "a", "", "address to listen on (default 127.0.0.1)")
	cmd.Flags().IntP("port", "p", 0, "port to listen on (default 6142)")
	cmd.Flags().String("delay", "", "analysis delay, e.g. 0 or 2s")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"addr":  changed(cmd, "addr"),
		"port":  changed(cmd, "port"),
		"delay": changed(cmd, "delay"),
	})
	if err != nil {
		return err
	}
	delay, err := cfg.DelayDuration()
	if err != nil {
		return err
	}

	sess := session.New(analysis.NewHeuristic(delay))
	srv := api.New(cfg.ListenAddr(), sess,
		api.WithMaxUpload(cfg.Upload.MaxBytes),
		api.WithLogger(log.New(os.Stderr, "crev: ", log.LstdFlags)),
	)
	return srv.ListenAndServe()
}
