package main

import "github.com/rush-shell/rush/cmd"

func main() {
	cmd.Execute()
}
