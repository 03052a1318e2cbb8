package main

import "github.com/kozaktomas/saliency-bias/cmd"

func main() {
	cmd.Execute()
}
