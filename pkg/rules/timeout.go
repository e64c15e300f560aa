package rules

import (
	"fmt"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalTimeout is the default limit for a single predicate evaluation.
const EvalTimeout = 2 * time.Second

type evalResult struct {
	value  zygo.Sexp
	errors []EvalError
	err    error
}

// runWithTimeout runs fn on its own goroutine and gives up after d. A
// panic inside fn is reported as an error.
//
// On timeout the goroutine may still be running; its result is dropped
// into the buffered channel and discarded.
func runWithTimeout(d time.Duration, fn func() (zygo.Sexp, []EvalError, error)) (evalResult, error) {
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		v, evalErrs, err := fn()
		ch <- evalResult{value: v, errors: evalErrs, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res, res.err
	case <-timer.C:
		return evalResult{}, fmt.Errorf("evaluation timed out after %s", d)
	}
}
