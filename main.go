package main

import "zr3/rprompt/cmd"

func main() {
	cmd.Execute()
}
