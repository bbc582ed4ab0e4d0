package main

import (
	"os"

	"venues-go/cmd/venuectl/tool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
