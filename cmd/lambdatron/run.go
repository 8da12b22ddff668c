package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	lambdatron "github.com/cotsog/Lambdatron"
	"github.com/cotsog/Lambdatron/lisp"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run lisp code",
	Long:  `Run lisp code supplied via the command line or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMain(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func runMain(args []string) error {
	in, err := lambdatron.New()
	if err != nil {
		return err
	}
	for _, arg := range args {
		var v *lisp.LVal
		if runExpression {
			v = in.Eval(arg)
		} else {
			f, err := os.Open(arg)
			if err != nil {
				return err
			}
			v = in.Load(arg, f)
			f.Close()
		}
		if err := lisp.GoError(v); err != nil {
			return errors.Wrap(err, arg)
		}
		if runPrint {
			fmt.Println(in.Print(v))
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
