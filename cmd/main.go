package main

import (
	"os"

	"github.com/dinariox/quiz-conquest-backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
