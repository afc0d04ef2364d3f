package main

import (
	"os"

	"github.com/jandubois/injector-probe/internal/app"
	"github.com/jandubois/injector-probe/internal/runtimes/nodejs"
)

func main() {
	os.Exit(app.Main(nodejs.Variant(), os.Args[1:]))
}
