// Package main is the entry point for the anictl command line client.
package main

import "anime-aggregator/internal/cli"

func main() {
	cli.Execute()
}
