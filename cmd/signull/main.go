package main

import "github.com/signullgame/signull/internal/cli"

func main() {
	cli.Execute()
}
