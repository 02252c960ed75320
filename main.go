package main

import (
	"musehub/cmd"
)

func main() {
	cmd.Execute()
}
