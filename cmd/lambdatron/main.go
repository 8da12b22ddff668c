// Command lambdatron runs lisp source files, one-off expressions, or an
// interactive repl.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lambdatron",
	Short: "A Clojure-like lisp interpreter",
	Long:  `Lambdatron evaluates lisp source files or runs an interactive repl.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
