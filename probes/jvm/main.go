package main

import (
	"os"

	"github.com/jandubois/injector-probe/internal/app"
	"github.com/jandubois/injector-probe/internal/runtimes/jvm"
)

func main() {
	os.Exit(app.Main(jvm.Variant(), os.Args[1:]))
}
