package main

import "github.com/csnewman/craftlauncher/cmd"

func main() {
	cmd.Execute()
}
