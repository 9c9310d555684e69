package main

import (
	"os"

	"github.com/saqibullah/heart-disease-predictor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
