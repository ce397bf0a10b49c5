// main is the entry point for the crashspot CLI.
package main

import (
	"github.com/huangsam/crashspot/cmd"
	"github.com/huangsam/crashspot/internal/contract"
)

func main() {
	err := cmd.Execute()
	if closeErr := cmd.CloseStore(); closeErr != nil {
		contract.LogWarn("Failed to close record store", closeErr)
	}
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Failed to stop profiling", profErr)
	}
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
