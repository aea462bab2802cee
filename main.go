// main is the entrypoint for the factorscope CLI.
package main

import (
	"os"

	"github.com/factorscope/factorscope/cmd"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Cleanup runs even when the command failed so cache connections
	// and profile files are not left dangling.
	iocache.CloseCaching()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		os.Exit(1)
	}
}
