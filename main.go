package main

import (
	"os"

	"github.com/insightdelivered/order-scanner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
