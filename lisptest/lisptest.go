// Package lisptest provides a table-driven harness for end-to-end
// evaluation tests: source text in, printed result out.
package lisptest

import (
	"io"
	"strings"
	"testing"

	lambdatron "github.com/cotsog/Lambdatron"
	"github.com/cotsog/Lambdatron/lisp"
)

// TestSequence is a sequence of lisp expressions evaluated in order
// within one interpreter.  Result is the printed value, or "error:<code>"
// when the expression must fail with the given condition.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the printed result or expected error condition
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence against an isolated interpreter.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			in, err := lambdatron.New(lambdatron.WithOutput(io.Discard))
			if err != nil {
				t.Fatalf("interpreter: %v", err)
			}
			for j, expr := range test.TestSequence {
				v := in.Eval(expr.Expr)
				if want, ok := strings.CutPrefix(expr.Result, "error:"); ok {
					if v.Type != lisp.LError {
						t.Errorf("expr %d %q: expected %s error (got %s)",
							j, expr.Expr, want, in.Print(v))
					} else if v.Err.Code.String() != want {
						t.Errorf("expr %d %q: expected %s error (got %v)",
							j, expr.Expr, want, v.Err)
					}
					continue
				}
				if v.Type == lisp.LError {
					t.Errorf("expr %d %q: %v", j, expr.Expr, v.Err)
					continue
				}
				if got := in.Print(v); got != expr.Result {
					t.Errorf("expr %d %q: expected result %s (got %s)",
						j, expr.Expr, expr.Result, got)
				}
			}
		})
	}
}
