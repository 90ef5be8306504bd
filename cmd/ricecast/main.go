package main

import "ricecast/internal/cli"

func main() {
	cli.Execute()
}
