package cli

import "github.com/joho/godotenv"

// Version is the release version of the binary. Stamped at build time:
//
//	go build -ldflags "-X github.com/tmarksen/gdfx/pkg/cli.Version=1.2.3"
var Version = "0.0.0-dev"

// Environment configuration may be seeded from a .env file in the working
// directory. A missing file is not an error.
func init() {
	_ = godotenv.Load()
}
