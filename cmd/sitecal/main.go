package main

import (
	"os"

	"github.com/obedmacallums/site-calibration/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
