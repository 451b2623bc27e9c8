package main

import (
	"os"

	"sqlchat-go/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
