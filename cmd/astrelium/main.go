// Command astrelium is a terminal coding assistant backed by a local Ollama model.
package main

import "github.com/chriscorrea/astrelium/internal/cmd"

func main() {
	cmd.Execute()
}
