package main

import (
	"os"

	"github.com/domonda/go-tableview/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
