package main

import "github.com/iksnae/flux-workspace/cmd"

func main() {
	cmd.Execute()
}
