package main

import "github.com/FVLArchive/qwatch/cmd"

func main() {
	cmd.Execute()
}
