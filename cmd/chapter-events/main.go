package main

import (
	// Embedded zone database for hosts without one (containers, serverless).
	_ "time/tzdata"

	"github.com/pfrederiksen/chapter-events/internal/cli"
)

func main() {
	cli.Execute()
}
