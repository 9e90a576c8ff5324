package main

import (
	"github.com/tabsplit/tabsplit/internal/cli"
)

func main() {
	cli.Execute()
}
