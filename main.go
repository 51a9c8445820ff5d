package main

import (
	"github.com/subosito/gotenv"

	"github.com/teemow/calgrid/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	// A .env file in the working directory may provide GOOGLE_CLIENT_ID
	// and friends; it is optional.
	_ = gotenv.Load()

	cmd.SetVersion(version)
	cmd.Execute()
}
