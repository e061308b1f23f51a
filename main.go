package main

import "github.com/trybenon/peopled/cmd"

func main() {
	cmd.Execute()
}
