package main

import "github.com/carelytics/carelytics-cli/cmd"

func main() {
	cmd.Execute()
}
