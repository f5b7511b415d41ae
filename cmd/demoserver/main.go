// Command demoserver starts a deliberately weak website for exercising
// the scanner end to end.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/scanforge/scanforge/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
