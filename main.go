package main

import "mpix/cmd"

func main() {
	cmd.Execute()
}
