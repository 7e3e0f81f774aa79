package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/packtrace/sdp-backend/internal/app"
)

func main() {
	// A missing .env is fine in hosted environments; variables come from
	// the process there.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		a.Log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
