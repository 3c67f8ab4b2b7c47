package main

import "anoa.com/unimanage/cmd/umsctl/cmd"

func main() {
	cmd.Execute()
}
