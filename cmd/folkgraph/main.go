// Package main provides the folkgraph binary entry point.
// Folkgraph builds an RDF knowledge graph from a folktale corpus table
// and manages the classification provenance around it.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/c360studio/folkgraph/commands"
	"github.com/c360studio/folkgraph/validation"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// A .env next to the working directory may carry the path overrides.
	_ = godotenv.Load()

	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, validation.ErrEngine) {
			os.Exit(validation.ExitEngine)
		}
		os.Exit(1)
	}
}
