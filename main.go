package main

import "martctl/cmd"

func main() {
	cmd.Execute()
}
