package main

import "Scrubline/cmd"

func main() {
	cmd.Execute()
}
