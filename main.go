package main

import (
	"os"
	_ "time/tzdata"

	"github.com/vzahanych/weathernow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
