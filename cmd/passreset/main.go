package main

import "github.com/nfrund/passreset/cmd/passreset/cmd"

func main() {
	cmd.Execute()
}
