package main

import "github.com/gaurav-prasanna/assetpipe/cmd"

func main() {
	cmd.Execute()
}
