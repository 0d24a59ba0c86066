package main

import "target-resolver/internal/cli"

func main() {
	cli.Execute()
}
