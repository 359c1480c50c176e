// Package main is the gridline CLI entry point.
package main

import "github.com/gridline-labs/gridline/internal/cli"

func main() {
	cli.Execute()
}
