package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"

	"go.uber.org/zap"
)

func main() {
	confPath := flag.String("c", "internal/conf/config.yaml", "config file path")
	flag.Parse()

	appConfig, err := conf.NewConfig(*confPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	app, cleanup, err := InitializeConsumerApp(appConfig)
	if err != nil {
		panic(fmt.Sprintf("initialize consumer: %v", err))
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info("Notification consumer starting")
	if err := app.Run(ctx); err != nil {
		app.logger.Error("Notification consumer exited with error", zap.Error(err))
	}
	app.logger.Info("Notification consumer stopped")
}
