package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/optisols/Solveit-payslip-generator/internal/config"
	"github.com/optisols/Solveit-payslip-generator/internal/logging"
	"github.com/optisols/Solveit-payslip-generator/internal/server"
	"github.com/optisols/Solveit-payslip-generator/internal/util"
)

var (
	port    = flag.Int("port", 0, "listen port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Payslip Generator")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	ensuredDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		fmt.Printf("failed to create data directory: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("data directory: %s\n", ensuredDataDir)

	log := logging.Setup(ensuredDataDir, cfg.Server.DevMode)

	srv := server.NewServer(cfg, ensuredDataDir, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := server.URL(cfg.Server.Port)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("opening browser: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("could not open browser, visit %s manually\n", url)
		}
	} else {
		fmt.Printf("dev mode: visit %s\n", url)
	}

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
}
