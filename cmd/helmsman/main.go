package main

import "github.com/ahlgren/helmsman/cmd/helmsman/cmd"

func main() {
	cmd.Execute()
}
