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

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/relay"
)

const defaultRelayPath = "/pong"

var flagRelayAddr string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Start the websocket relay for online matches",
	Long: `Start a websocket relay that pairs two 'pong play --relay' clients
sharing a room name and forwards their paddle positions. Each client runs
its own simulation from the seed the relay hands out.

Examples:
  pong relay                 # Listen on :8080
  pong relay --addr :9000

Players connect with:
  pong play --relay ws://<host>:8080/pong --room <name>`,
	Run: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&flagRelayAddr, "addr", ":8080", "HTTP listen address (host:port)")
}

func runRelay(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("pong-relay", os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	hub := relay.NewServer(logger)
	mux := http.NewServeMux()
	mux.Handle(defaultRelayPath, hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "ok rooms=%d\n", hub.RoomCount())
	})

	srv := &http.Server{
		Addr:              flagRelayAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting relay", "address", flagRelayAddr, "path", defaultRelayPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
