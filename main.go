package main

import (
	"os"

	"github.com/newhook/outlook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
