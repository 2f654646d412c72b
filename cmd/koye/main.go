package main

import "github.com/khawaidev/koye-ai-cli-start/cmd/koye/cmd"

func main() {
	cmd.Execute()
}
