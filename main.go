package main

import (
	"os"

	"github.com/msomdec/mockmatch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
