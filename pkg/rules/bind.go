package rules

import (
	"fmt"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/hangerlink/pkg/scene"
)

// bindElement installs the element's facts as sandbox globals. Params are
// bound after the fixed facts and cannot shadow them.
func bindElement(env *zygo.Zlisp, e *scene.Element) {
	fixed := map[string]zygo.Sexp{
		"id":        &zygo.SexpInt{Val: int64(e.ID)},
		"category":  &zygo.SexpStr{S: string(e.Category)},
		"name":      &zygo.SexpStr{S: e.Name},
		"type_name": &zygo.SexpStr{S: e.TypeName},
	}

	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := globalName(k)
		if _, taken := fixed[name]; taken || name == "" {
			continue
		}
		env.AddGlobal(name, toSexp(e.Params[k]))
	}
	for name, v := range fixed {
		env.AddGlobal(name, v)
	}
}

// registerBuiltins installs the helper functions available to predicates.
func registerBuiltins(env *zygo.Zlisp, e *scene.Element) {

	// (param "insulation") returns the raw parameter or nil.
	env.AddFunction("param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		key, err := oneString(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, ok := lookupParam(e, key)
		if !ok {
			return zygo.SexpNull, nil
		}
		return toSexp(v), nil
	})

	// (has-param "insulation")
	env.AddFunction("has_param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		key, err := oneString(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		_, ok := lookupParam(e, key)
		return &zygo.SexpBool{Val: ok}, nil
	})

	// (like type-name "dn50") is a case-insensitive substring test.
	env.AddFunction("like", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		s, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		sub, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &zygo.SexpBool{Val: strings.Contains(strings.ToLower(s), strings.ToLower(sub))}, nil
	})
}

func lookupParam(e *scene.Element, key string) (any, bool) {
	if v, ok := e.Params[key]; ok {
		return v, true
	}
	want := globalName(key)
	for k, v := range e.Params {
		if globalName(k) == want {
			return v, true
		}
	}
	return nil, false
}

func oneString(fn string, args []zygo.Sexp) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s: expected 1 argument, got %d", fn, len(args))
	}
	s, err := toString(args[0])
	if err != nil {
		return "", fmt.Errorf("%s: %w", fn, err)
	}
	return s, nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toSexp converts a decoded parameter value into a zygomys value.
func toSexp(v any) zygo.Sexp {
	switch x := v.(type) {
	case nil:
		return zygo.SexpNull
	case bool:
		return &zygo.SexpBool{Val: x}
	case int:
		return &zygo.SexpInt{Val: int64(x)}
	case int64:
		return &zygo.SexpInt{Val: x}
	case uint64:
		return &zygo.SexpInt{Val: int64(x)}
	case float32:
		return &zygo.SexpFloat{Val: float64(x)}
	case float64:
		return &zygo.SexpFloat{Val: x}
	case string:
		return &zygo.SexpStr{S: x}
	default:
		return &zygo.SexpStr{S: fmt.Sprint(x)}
	}
}
