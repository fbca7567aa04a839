package main

import "github.com/correia-crespo/triagem/cmd"

func main() {
	cmd.Execute()
}
