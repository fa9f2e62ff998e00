package main

import "github.com/naka-gawa/aero-stat/cmd"

func main() {
	cmd.Execute()
}
