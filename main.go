package main

import "nathanbeddoewebdev/dnsweeper/cmd"

func main() {
	cmd.Execute()
}
