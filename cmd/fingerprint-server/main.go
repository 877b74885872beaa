package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/high-horse/fingerprint-server/config"
	"github.com/high-horse/fingerprint-server/logging"
	"github.com/high-horse/fingerprint-server/scanner"
	"github.com/high-horse/fingerprint-server/server"
	"github.com/high-horse/fingerprint-server/sgfplib"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("FPS_CONFIG"), "path to a TOML config file")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sink, err := logging.Setup(config.Config.Log)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer sink.Close()

	sel := scanner.Select(sgfplib.Load, config.Config)
	defer sel.Close()

	srv := server.New(sel, config.Config, sink)

	// Release the device before exiting on Ctrl+C or a service stop.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := srv.Shutdown(shutdownTimeout); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		sel.Close()
		sink.Close()
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
