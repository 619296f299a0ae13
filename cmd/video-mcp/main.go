package main

import "github.com/ironsheep/video-tools-mcp/cmd/video-mcp/commands"

func main() {
	commands.Execute()
}
