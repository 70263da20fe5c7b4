package main

import (
	"os"

	"github.com/armadaproject/qpp/cmd/qpp/cmd"
	"github.com/armadaproject/qpp/internal/common"
)

func main() {
	common.ConfigureLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
