package main

import "github.com/brogergvhs/moviebox/cmd"

func main() {
	cmd.Execute()
}
