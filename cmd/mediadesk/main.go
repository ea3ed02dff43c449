package main

import (
	"github.com/blackwell-systems/mediadesk/internal/app"
	"github.com/joho/godotenv"
)

// version is set by goreleaser via ldflags.
var version = "dev"

func main() {
	// A .env next to the binary's working directory may carry the token.
	_ = godotenv.Load()

	app.SetVersion(version)
	app.Execute()
}
