package main

import (
	"log"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/config"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/pkg/librarian"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

func main() {
	// Load environment files explicitly
	envFiles := []string{".env.local", ".env.development", ".env"}
	config.LoadEnvFiles(envFiles)

	// Load configuration from YAML
	cfg, err := config.LoadFromFile("config.yaml")
	if err != nil {
		fiberlog.Fatalf("Failed to load config: %v", err)
	}

	server := librarian.NewServer(cfg)

	log.Println("Starting Smart Librarian server...")
	if err := server.Run(); err != nil {
		fiberlog.Fatalf("Server failed: %v", err)
	}
}
