package main

import "github.com/CapyTheBeara/devcaddy/cmd"

func main() {
	cmd.Execute()
}
