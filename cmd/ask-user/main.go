package main

import "github.com/strrl/ask-user/cmd/ask-user/commands"

func main() {
	commands.Execute()
}
