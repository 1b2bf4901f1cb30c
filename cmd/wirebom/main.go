package main

import "github.com/tklenke/wirebom/cmd/wirebom/cmd"

func main() {
	cmd.Execute()
}
