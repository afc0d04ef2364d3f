package main

import (
	"os"

	"github.com/jandubois/injector-probe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
