package main

import "github.com/chrisdamba/fooder/cmd"

func main() {
	cmd.Execute()
}
