package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site",
	Long: `Serves the portfolio's About and Education sections as HTMX fragments
and JSON, and exports the same content for static front-end builds.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := logger.Init(cfg.IsProduction(), cfg.LogLevel)
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Broken image references are fatal before we accept traffic.
	if err := content.Validate(); err != nil {
		return fmt.Errorf("content assets: %w", err)
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	a := newApp(cfg, log, db)
	if cfg.UsingDefaultAdmin() {
		log.Warn("Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
	}
	if gin.Mode() == gin.DebugMode {
		log.Debug("Admin token (dev only)", zap.String("token", a.adminToken))
	}
	log.Info("Privacy: visitor tracking enabled with hashed IP addresses",
		zap.Int("retention_months", cfg.VisitorRetentionMonths))

	a.track(func() {
		removed, err := a.cleanupOldVisitorData()
		if err != nil {
			log.Error("Error cleaning up old visitor data", zap.Error(err))
			return
		}
		if removed > 0 {
			log.Info("Privacy cleanup", zap.Int64("removed", removed))
		}
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router("templates/*"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.wait()
	return nil
}
