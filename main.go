package main

import "github.com/ainews/apiserver/cmd"

func main() {
	cmd.Execute()
}
