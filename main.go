package main

import (
	"github.com/jjtimmons/alnmerge/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
