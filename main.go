package main

import (
	"os"

	"github.com/imkarma/tasktrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
