package main

import "github.com/bookpulse/bestseller-archive/cmd"

func main() {
	cmd.Execute()
}
