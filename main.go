package main

import "github.com/kozaktomas/campus-tracker/cmd"

func main() {
	cmd.Execute()
}
