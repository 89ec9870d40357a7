package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/pulse/config"
)

func main() {
	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	// The schema package embeds this file for config validation.
	outputPath := filepath.Join("schema", "pulse.schema.json")
	if err := os.WriteFile(outputPath, append(schemaBytes, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at %s", outputPath)
}
