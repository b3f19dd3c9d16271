package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"cbtrader/config"
	"cbtrader/core"
	"cbtrader/pkg/types"
)

func main() {
	configureLog(config.Env.EnvName)

	// Load config
	config, err := config.LoadConfig(config.Env.EnvName)
	if err != nil {
		log.Fatalf("fail to load config: %v", err)
	}

	// 📊 core: order placement module
	orderService, err := core.Bootstrap(*config)
	if err != nil {
		log.Panicf("fail to bootstrap app: %v", err)
	}

	// 🌩️ fiber: rest API module
	fApp := core.SetupFiberApp(orderService)

	// trap signal for graceful shutdown
	setupSignalHandler(fApp)

	port := 3000
	if config.Server != nil && config.Server.Port != 0 {
		port = config.Server.Port
	}
	if err := fApp.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.Panic(err)
	}
}

func configureLog(envName types.EnvName) {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if envName == types.EnvLocal || envName == types.EnvDev {
		log.SetLevel(log.DebugLevel)
	}
}

func setupSignalHandler(fApp *fiber.App) {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigC
		log.Info("🚩 received shutdown signal")
		core.ShutdownFiberApp(fApp)
	}()
}
