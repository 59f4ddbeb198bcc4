package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tobyward/pace/internal/cli"
)

func main() {
	// A .env in the working directory is a convenience for local setups;
	// its absence is not an error.
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
