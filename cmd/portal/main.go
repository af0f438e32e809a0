package main

import "github.com/jrsteele09/go-game-portal/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
