package main

import "github.com/Tiliavir/mapty/cmd"

func main() {
	cmd.Execute()
}
