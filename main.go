package main

import "kadmin/cmd"

func main() {
	cmd.Execute()
}
