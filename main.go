package main

import "github.com/mkowalski/billsync/cmd"

func main() {
	cmd.Execute()
}
