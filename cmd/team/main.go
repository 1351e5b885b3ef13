package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/yakoovad/flowcraft/internal/client"
	"github.com/yakoovad/flowcraft/internal/config"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err = cfg.ValidateClient(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	a := &app{
		api:         client.New(cfg.API.BaseURL, cfg.API.Token, &http.Client{Timeout: cfg.API.RequestTimeout}),
		workspaceID: cfg.API.WorkspaceID,
		in:          os.Stdin,
		out:         os.Stdout,
	}

	code := a.run(logger.WithLogger(ctx, log), os.Args[1:])
	stop()
	_ = log.Sync()
	os.Exit(code)
}
