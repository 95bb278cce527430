// framelog - serial telemetry recorder
//
// framelog reads a device's text output over a serial port and records
// the data frames of each logging session to its own CSV file.
package main

import (
	"os"

	"github.com/bvat-tools/framelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
