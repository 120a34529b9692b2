package main

import "pe-allocation/internal/cli"

func main() {
	cli.Execute()
}
