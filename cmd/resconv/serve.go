// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/resconv/internal/convert"
	"github.com/pdiddy/resconv/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Serve the resume upload form",
	Long:         `Start an HTTP server with an upload form. Each upload is converted and returned as a download.`,
	SilenceUsage: true,
	Annotations:  map[string]string{annotationNeedsOffice: "true"},
	RunE:         runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default :8080)")
	serveCmd.Flags().Int("max-upload-mb", 0, "maximum upload size in megabytes (default 20)")
	_ = viper.BindPFlag("server.listen_addr", serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("server.max_upload_mb", serveCmd.Flags().Lookup("max-upload-mb"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	hist, err := openHistory()
	if err != nil {
		log.Warn("history disabled", zap.Error(err))
	}

	// A nil *history.Store must not become a non-nil Recorder.
	var rec server.Recorder
	if hist != nil {
		defer hist.Close()
		rec = hist
	}

	orch := convert.New(convert.Options{Office: officeOptions(), Logger: log})
	srv := server.New(cfg.Server, orch, rec, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("serving upload form", zap.String("addr", cfg.Server.ListenAddr))
		errc <- srv.Run()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
