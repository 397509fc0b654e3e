package main

import "github.com/rvodden/rvodden.github.io/internal/cli"

func main() {
	cli.Execute()
}
