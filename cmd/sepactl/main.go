package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

var version = "1.0.0"

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := newRootCmd(log).Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
