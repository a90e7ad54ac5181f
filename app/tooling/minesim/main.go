package main

import "github.com/ardanlabs/minesim/app/tooling/minesim/cmd"

func main() {
	cmd.Execute()
}
