package main

import (
	"os"

	"github.com/sorabito-takano/imgopt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
