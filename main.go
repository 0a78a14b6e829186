package main

import "github.com/antifraud/antifraud-system/cmd"

func main() {
	cmd.Execute()
}
