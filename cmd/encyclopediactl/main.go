package main

import "github.com/rehci/encyclopedia/internal/cli"

func main() {
	cli.Execute()
}
