package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		rt, err := buildRuntime(cmd, cfg, "")
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := log.New(os.Stderr, "quizgen: ", log.LstdFlags)
		srv := server.New(rt.svc, server.Options{
			CORSOrigins:     cfg.Server.CORSOrigins,
			SessionTTL:      cfg.Server.SessionTTL,
			RequestTimeout:  cfg.Server.RequestTimeout,
			GenerateTimeout: cfg.GenerateTimeout(),
			Logger:          logger,
		})

		logger.Printf("listening on %s (store: %s, daily limit: %d)", addr, cfg.Store.Backend, cfg.Quiz.DailyLimit)
		if err := srv.Run(ctx, addr); err != nil {
			return err
		}
		logger.Println("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr)")
}

