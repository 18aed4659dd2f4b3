package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"lobbynet/config"
	"lobbynet/lobby"
	"lobbynet/lobby/store"
	"lobbynet/observability/logging"
	"lobbynet/peer"
)

const serverIdentifier = "primary"

func main() {
	configFile := flag.String("config", "./lobbyd.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logOut io.Writer
	if strings.TrimSpace(cfg.LogFile) != "" {
		logOut = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	logger := logging.Setup("lobbyd", cfg.Environment, logOut)

	userStore, err := store.OpenLevelStore(filepath.Join(cfg.DataDir, "users"))
	if err != nil {
		logger.Error("Failed to open user store", slog.Any("error", err))
		os.Exit(1)
	}
	defer userStore.Close()

	settings := lobby.DefaultSettings()
	settings.MinUsernameLength = cfg.Lobby.MinUsernameLength
	settings.MaxUsernameLength = cfg.Lobby.MaxUsernameLength
	settings.MinPasswordLength = cfg.Lobby.MinPasswordLength
	settings.MaxPasswordLength = cfg.Lobby.MaxPasswordLength
	settings.ChatPostsPerSecond = cfg.Lobby.ChatPostsPerSecond
	settings.ChatPostBurst = cfg.Lobby.ChatPostBurst
	settings.UpkeepInterval = cfg.UpkeepInterval()

	hub := lobby.New(cfg.Lobby.Name, settings, userStore, logger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	peers := peer.NewManager(logger)
	var listenIP net.IP
	if strings.TrimSpace(cfg.Net.ListenAddress) != "" {
		listenIP = net.ParseIP(cfg.Net.ListenAddress)
	}
	if res := peers.AddServer(serverIdentifier, cfg.Net.ApplicationID, listenIP, cfg.Net.ListenPort); res != peer.Success {
		logger.Error("Failed to register server peer", slog.String("result", res.String()))
		os.Exit(1)
	}
	if p, res := peers.Server(serverIdentifier); res == peer.Success {
		c := p.Config()
		c.SetMaxConnections(cfg.Net.MaxConnections)
		c.SetPingInterval(time.Duration(cfg.Net.PingSeconds) * time.Second)
		c.SetConnectionTimeout(time.Duration(cfg.Net.TimeoutSeconds) * time.Second)
		c.SetMTU(cfg.Net.MTU)
		c.Lock()
	}
	if res := peers.StartServer(ctx, serverIdentifier, "lobbyd boot"); res != peer.Success {
		logger.Error("Failed to start server peer", slog.String("result", res.String()))
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("HTTP listener up", slog.String("addr", cfg.HTTPAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", slog.Any("error", err))
			stop()
		}
	}()

	logger.Info("lobbyd running",
		slog.String("lobby", cfg.Lobby.Name),
		slog.Int("port", cfg.Net.ListenPort))

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	if res := peers.ShutdownServer(shutdownCtx, serverIdentifier, "lobbyd shutdown"); res != peer.Success {
		logger.Warn("Server peer shutdown", slog.String("result", res.String()))
	}
}
