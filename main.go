package main

import (
	"os"

	"github.com/atlbridge/atlbridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
