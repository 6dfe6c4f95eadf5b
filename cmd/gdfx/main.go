package main

import "github.com/tmarksen/gdfx/pkg/cli"

func main() {
	cli.Run()
}
