package rules

import "testing"

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "keyword becomes string",
			input:  `(== system :CW)`,
			expect: `(== system "CW")`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `(== service :cold-water)`,
			expect: `(== service "cold-water")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(like type-name "dn50")`,
			expect: `(like type_name "dn50")`,
		},
		{
			name:   "minus operator preserved",
			input:  `(> (- diameter 5) 40)`,
			expect: `(> (- diameter 5) 40)`,
		},
		{
			name:   "comment converted to // style",
			input:  ";; only insulated\n(has-param \"insulation\")",
			expect: "// only insulated\n(has_param \"insulation\")",
		},
		{
			name:   "escaped quote inside string",
			input:  `(== name "a \"b-c\"")`,
			expect: `(== name "a \"b-c\"")`,
		},
		{
			name:   "backtick string preserved",
			input:  "(like name `x-y`)",
			expect: "(like name `x-y`)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q)\n got  %q\n want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestGlobalName(t *testing.T) {
	tests := map[string]string{
		"diameter":       "diameter",
		"System Type":    "system_type",
		"outer-diameter": "outer_diameter",
		" Level ":        "level",
	}
	for in, want := range tests {
		if got := globalName(in); got != want {
			t.Errorf("globalName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWrapProgram(t *testing.T) {
	got := wrapProgram("insulated // note")
	if got != "(begin insulated // note\n)" {
		t.Errorf("wrapProgram = %q", got)
	}
}

func TestCompileChecksUnwrappedSource(t *testing.T) {
	// An unbalanced form must not be closed by the enclosing begin.
	x, evalErrs, err := NewEngine().Compile(`(== system "CW"`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if x != nil || len(evalErrs) == 0 {
		t.Fatalf("Compile accepted unbalanced source: %v %v", x, evalErrs)
	}
}
