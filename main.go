package main

import "github.com/RyanBlaney/scope-inspector/cmd"

func main() {
	cmd.Execute()
}
