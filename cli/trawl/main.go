package main

import (
	"os"

	trawlcmder "github.com/harborworks/trawl/cmd/trawl"
)

func main() {
	cmd := trawlcmder.NewTrawlCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
