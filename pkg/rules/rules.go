// Package rules evaluates view rule-filter predicates written as zygomys
// Lisp expressions. Each evaluation runs in a fresh sandbox with the
// element's facts bound as globals, for example:
//
//	(and (== system "CW") (> diameter 40))
//	(like type-name "dn50")
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/hangerlink/pkg/scene"
)

// EvalError represents a parse or runtime error in a predicate expression.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine compiles predicate expressions.
type Engine struct {
	Timeout time.Duration
}

// NewEngine creates an Engine with the default evaluation timeout.
func NewEngine() *Engine {
	return &Engine{Timeout: EvalTimeout}
}

// Expr is a compiled predicate. It implements scene.Predicate.
type Expr struct {
	source  string
	prepped string
	timeout time.Duration
}

var _ scene.Predicate = (*Expr)(nil)

// Compile checks that source parses and returns an executable predicate.
//
// Return semantics:
//   - On success: returns expr + nil errors + nil error
//   - On parse failure: returns nil expr + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (en *Engine) Compile(source string) (*Expr, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "empty predicate"}}, nil
	}
	prepped := preprocessSource(source)

	res, err := runWithTimeout(en.timeout(), func() (zygo.Sexp, []EvalError, error) {
		env := zygo.NewZlispSandbox()
		defer env.Stop()
		if err := env.LoadString(prepped); err != nil {
			return nil, parseZygomysError(err), nil
		}
		return zygo.SexpNull, nil, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(res.errors) > 0 {
		return nil, res.errors, nil
	}
	return &Expr{source: source, prepped: wrapProgram(prepped), timeout: en.timeout()}, nil, nil
}

// MustCompile is like Compile but panics on any error.
func (en *Engine) MustCompile(source string) *Expr {
	x, evalErrs, err := en.Compile(source)
	if err != nil {
		panic(fmt.Sprintf("rules: %v", err))
	}
	if len(evalErrs) > 0 {
		panic(fmt.Sprintf("rules: %v", evalErrs[0]))
	}
	return x
}

func (en *Engine) timeout() time.Duration {
	if en == nil || en.Timeout <= 0 {
		return EvalTimeout
	}
	return en.Timeout
}

// Source returns the expression as written.
func (x *Expr) Source() string {
	return x.source
}

// Match evaluates the expression against e. The expression must produce a
// boolean; nil counts as false.
func (x *Expr) Match(e *scene.Element) (bool, error) {
	res, err := runWithTimeout(x.timeout, func() (zygo.Sexp, []EvalError, error) {
		env := zygo.NewZlispSandbox()
		defer env.Stop()
		bindElement(env, e)
		registerBuiltins(env, e)

		if err := env.LoadString(x.prepped); err != nil {
			return nil, parseZygomysError(err), nil
		}
		out, err := env.Run()
		if err != nil {
			return nil, parseZygomysError(err), nil
		}
		return out, nil, nil
	})
	if err != nil {
		return false, err
	}
	if len(res.errors) > 0 {
		return false, res.errors[0]
	}
	return truthy(res.value)
}

func truthy(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case nil:
		return false, nil
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return false, nil
		}
	}
	return false, fmt.Errorf("predicate must return a boolean, got %s", s.SexpString(nil))
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
