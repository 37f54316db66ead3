package main

import "github.com/mkuznecov/estima/internal/command"

func main() {
	command.Execute()
}
