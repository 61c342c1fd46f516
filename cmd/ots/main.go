package main

import "github.com/OpenTraceLab/OpenTraceSPICE/cmd/ots/cmd"

func main() {
	cmd.Execute()
}
