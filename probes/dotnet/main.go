package main

import (
	"os"

	"github.com/jandubois/injector-probe/internal/app"
	"github.com/jandubois/injector-probe/internal/runtimes/dotnet"
)

func main() {
	os.Exit(app.Main(dotnet.Variant(), os.Args[1:]))
}
