package main

import "github.com/chadmayfield/weatherd/cmd"

func main() {
	cmd.Execute()
}
