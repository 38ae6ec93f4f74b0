package main

import "github.com/douhashi/houki/cmd"

func main() {
	cmd.Execute()
}
