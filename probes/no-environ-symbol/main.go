// Command no-environ-symbol reports a single environment variable. Built with
// CGO_ENABLED=0 it is a static binary without an environ symbol, which an
// injector must leave untouched.
package main

import (
	"fmt"
	"os"
)

const envVarName = "NO_ENVIRON_TEST_VAR"

func main() {
	fmt.Println(report(os.LookupEnv(envVarName)))
}

func report(value string, isSet bool) string {
	if !isSet {
		return fmt.Sprintf("The environment variable \"%s\" is not set.", envVarName)
	}
	return fmt.Sprintf("The environment variable \"%s\" had the value: \"%s\".", envVarName, value)
}
