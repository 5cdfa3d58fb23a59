package main

import (
	"github.com/spf13/cobra"

	"github.com/ardanlabs/glextl/cmd"
)

func main() {
	cobra.CheckErr(cmd.NewCLI().Execute())
}
