package main

import "multisig/cmd"

func main() {
	cmd.Execute()
}
