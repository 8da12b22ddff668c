// Package repl implements the interactive lambdatron prompt.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	lambdatron "github.com/cotsog/Lambdatron"
	"github.com/cotsog/Lambdatron/lisp"
)

// Run reads forms from the terminal and prints their evaluated results
// until EOF.  Incomplete forms continue onto the next line.
func Run(in *lambdatron.Interp, prompt string) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len(prompt)) // prompt had better be ascii...

	var buf []byte
	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			buf = nil
			rl.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			errln("done")
			return nil
		}
		if err != nil {
			return err
		}
		if len(buf) != 0 {
			buf = append(buf, '\n')
			line = append(buf, line...)
			buf = nil
			rl.SetPrompt(prompt)
		}
		if len(line) == 0 {
			continue
		}
		v := in.Eval(string(line))
		if unfinished(v) {
			// ReadSlice reuses its buffer, so keep a copy
			buf = append([]byte(nil), line...)
			rl.SetPrompt(contPrompt)
			continue
		}
		if v.Type == lisp.LError {
			errln(lisp.GoError(v))
			continue
		}
		fmt.Println(in.Print(v))
	}
}

// unfinished reports whether an evaluation failed only because the input
// stops in the middle of a form.
func unfinished(v *lisp.LVal) bool {
	return v.Type == lisp.LError &&
		v.Err.Domain == lisp.DomainRead &&
		(v.Err.Code == lisp.ErrUnfinishedForm || v.Err.Code == lisp.ErrNonTerminatedString)
}

func errln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}
