package main

import "github.com/ziemacs/powerha-copilot-cli/cmd"

func main() {
	cmd.Execute()
}
