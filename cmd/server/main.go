// HTTP服务入口，等价于 sqlchat serve
package main

import (
	"os"

	"sqlchat-go/internal/cli"
)

func main() {
	os.Exit(cli.Main(append([]string{"serve"}, os.Args[1:]...)...))
}
