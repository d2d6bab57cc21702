// Command lecternd runs the lecture processing daemon: the HTTP API, the
// ingest watcher, and the pipeline workers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"lectern/internal/config"
	"lectern/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, path, exists, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !exists {
		fmt.Fprintf(os.Stderr, "config %s not found; using defaults\n", path)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel: *logLevel,
	}); err != nil {
		log.Fatalf("lecternd: %v", err)
	}
}
