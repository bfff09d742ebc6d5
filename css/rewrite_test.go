package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"scopec/css"
	"scopec/scope"
)

const testScope = scope.ID("f3f3eg9")

func rewrite(t *testing.T, input string) string {
	t.Helper()
	sheet := mustParse(t, input)
	r := css.NewRewriter(zap.NewNop())
	return r.Rewrite(sheet, testScope).String()
}

func TestRewriter_SingleCompound(t *testing.T) {
	got := rewrite(t, `.example { color: red; }`)
	want := ".example[data-v-f3f3eg9] {\n  color: red;\n}\n"
	if got != want {
		t.Errorf("rewrite mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRewriter_EveryCompoundScoped(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`.a .b { color: red; }`, ".a[data-v-f3f3eg9] .b[data-v-f3f3eg9] {"},
		{`.a > .b { color: red; }`, ".a[data-v-f3f3eg9] > .b[data-v-f3f3eg9] {"},
		{`.a + .b { color: red; }`, ".a[data-v-f3f3eg9] + .b[data-v-f3f3eg9] {"},
		{`ul li a { color: red; }`, "ul[data-v-f3f3eg9] li[data-v-f3f3eg9] a[data-v-f3f3eg9] {"},
		{`* { color: red; }`, "*[data-v-f3f3eg9] {"},
		{`div.note#x { color: red; }`, "div.note#x[data-v-f3f3eg9] {"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := rewrite(t, tt.input)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("expected output starting with %q, got:\n%s", tt.want, got)
			}
		})
	}
}

func TestRewriter_DeepCombinator(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"triple arrow",
			`.a >>> .b { color: red; }`,
			".a[data-v-f3f3eg9] .b {\n  color: red;\n}\n",
		},
		{
			"deep alias",
			`.a /deep/ .b { color: red; }`,
			".a[data-v-f3f3eg9] .b {\n  color: red;\n}\n",
		},
		{
			"everything right of the marker stays untouched",
			`.a >>> .b .c > .d { color: red; }`,
			".a[data-v-f3f3eg9] .b .c > .d {\n  color: red;\n}\n",
		},
		{
			"everything left of the marker is scoped",
			`.a .b >>> .c { color: red; }`,
			".a[data-v-f3f3eg9] .b[data-v-f3f3eg9] .c {\n  color: red;\n}\n",
		},
		{
			"second marker is plain descendant too",
			`.a >>> .b >>> .c { color: red; }`,
			".a[data-v-f3f3eg9] .b .c {\n  color: red;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewrite(t, tt.input); got != tt.want {
				t.Errorf("rewrite mismatch:\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRewriter_PseudoElementKeepsTrailingPosition(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`li::before { content: "-"; }`, "li[data-v-f3f3eg9]::before {"},
		{`li:before { content: "-"; }`, "li[data-v-f3f3eg9]:before {"},
		{`p.note::first-line { color: red; }`, "p.note[data-v-f3f3eg9]::first-line {"},
		{`a:hover { color: red; }`, "a:hover[data-v-f3f3eg9] {"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := rewrite(t, tt.input)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("expected output starting with %q, got:\n%s", tt.want, got)
			}
		})
	}
}

func TestRewriter_GroupedSelectors(t *testing.T) {
	got := rewrite(t, `h1, h2 { color: red; }`)
	want := "h1[data-v-f3f3eg9], h2[data-v-f3f3eg9] {\n  color: red;\n}\n"
	if got != want {
		t.Errorf("rewrite mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRewriter_MediaRecursion(t *testing.T) {
	got := rewrite(t, `
		@media screen and (max-width: 40em) {
			.a { color: red; }
		}
	`)
	want := "@media screen and (max-width: 40em) {\n  .a[data-v-f3f3eg9] {\n    color: red;\n  }\n}\n"
	if got != want {
		t.Errorf("rewrite mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRewriter_LeafAtRulesUntouched(t *testing.T) {
	inputs := []string{
		"@keyframes spin {\n  from {\n    transform: rotate(0deg);\n  }\n  to {\n    transform: rotate(360deg);\n  }\n}\n",
		"@font-face {\n  font-family: \"MyFont\";\n  src: url(\"f.woff\");\n}\n",
		"@import \"other.css\";\n",
	}

	for _, input := range inputs {
		sheet := mustParse(t, input)
		r := css.NewRewriter(zap.NewNop())
		if got := r.Rewrite(sheet, testScope).String(); got != input {
			t.Errorf("leaf at-rule was altered:\ngot:\n%s\nwant:\n%s", got, input)
		}
	}
}

func TestRewriter_DeclarationsUntouched(t *testing.T) {
	got := rewrite(t, `.a { background: url("bg.png"); margin: 1em 2em; --custom: >>>; }`)
	for _, want := range []string{`background: url("bg.png");`, "margin: 1em 2em;"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got:\n%s", want, got)
		}
	}
}

func TestRewriter_NonDestructive(t *testing.T) {
	sheet := mustParse(t, `
		.a > .b::after { color: red; }
		.c >>> .d { color: blue; }
		@media screen { .e { color: green; } }
	`)
	before := sheet.String()

	r := css.NewRewriter(zap.NewNop())
	out := r.Rewrite(sheet, testScope)

	if after := sheet.String(); after != before {
		t.Errorf("input stylesheet was mutated:\nbefore:\n%s\nafter:\n%s", before, after)
	}
	if out.String() == before {
		t.Error("expected rewritten output to differ from input")
	}
}

func TestRewriter_Deterministic(t *testing.T) {
	input := `
		.a .b { color: red; }
		.c >>> .d::before { content: "x"; }
		@media screen { .e:hover { color: green; } }
	`
	sheet := mustParse(t, input)
	r := css.NewRewriter(zap.NewNop())

	first := r.Rewrite(sheet, testScope).String()
	for range 5 {
		if got := r.Rewrite(sheet, testScope).String(); got != first {
			t.Fatalf("rewrite not deterministic:\nfirst:\n%s\ngot:\n%s", first, got)
		}
	}
}

func TestRewriter_EmptyStylesheet(t *testing.T) {
	r := css.NewRewriter(zap.NewNop())
	out := r.Rewrite(&css.Stylesheet{}, testScope)
	if !out.Empty() || out.String() != "" {
		t.Errorf("expected empty output for empty input, got %q", out.String())
	}
}

func TestRewriter_DifferentScopes(t *testing.T) {
	sheet := mustParse(t, `.a { color: red; }`)
	r := css.NewRewriter(zap.NewNop())

	one := r.Rewrite(sheet, scope.ID("aaa111")).String()
	two := r.Rewrite(sheet, scope.ID("bbb222")).String()
	if one == two {
		t.Error("expected different scopes to produce different output")
	}
	if !strings.Contains(one, "[data-v-aaa111]") || !strings.Contains(two, "[data-v-bbb222]") {
		t.Errorf("expected scope attributes in output:\n%s\n%s", one, two)
	}
}
