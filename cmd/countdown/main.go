// Package main is the entrypoint for the countdown terminal timer.
package main

import "github.com/nhle/countdown/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
