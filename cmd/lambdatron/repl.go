package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lambdatron "github.com/cotsog/Lambdatron"
	"github.com/cotsog/Lambdatron/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run an interactive lisp session",
	Run: func(cmd *cobra.Command, args []string) {
		in, err := lambdatron.New()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := repl.Run(in, "> "); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
