package main

import (
	"fmt"
	"os"

	"dualscribe/cmd/dualscribe/cmd"
	"dualscribe/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cmd.Execute()
}
