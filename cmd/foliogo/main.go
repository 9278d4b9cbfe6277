package main

import (
	"github.com/dyike/FolioGo/internal/cli"
)

func main() {
	cli.Run()
}
