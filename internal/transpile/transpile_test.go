package transpile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Translate(""))
	assert.Equal(t, "", Translate("   \n\t  "))
}

func TestTranslate_ConstDeclaration(t *testing.T) {
	assert.Equal(t, "// Swift code converted from JavaScript\nlet x = 1", Translate("const x = 1;"))
}

func TestTranslate_HeaderAlwaysFirst(t *testing.T) {
	for _, src := range []string{"x", "foo()", "}", "`"} {
		out := Translate(src)
		assert.True(t, strings.HasPrefix(out, Header), "missing header for %q", src)
	}
}

func TestTranslate_Rewrites(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"var", "var count = 0;", "var count = 0"},
		{"console log", "console.log('hi');", `print("hi")`},
		{"alert", "alert('x');", `print("x")`},
		{"document write", "document.write(total);", "print(total)"},
		{"print concatenation", `console.log("Total: " + total);`, `print("Total: \(total)")`},
		{"template literal", "`Hello ${name}`;", `"Hello \(name)"`},
		{"template literal spans", "`${a} and ${b}`", `"\(a) and \(b)"`},
		{"function", "function add(a, b) {\n  return a + b;\n}", "func add(a, b) {\n  return a + b\n}"},
		{"if else", "if (x > 1) {\n  y = 2;\n} else {\n  y = 3;\n}", "if x > 1 {\n  y = 2\n} else {\n  y = 3\n}"},
		{"for of", "for (let item of items) {", "for item in items {"},
		{"for in", "for (let key in obj) {", "for key in obj {"},
		{"while", "while (i < 10) {", "while i < 10 {"},
		{"do while", "do { x++ } while (x < 5);", "repeat { x += 1 } while x < 5"},
		{"push", "arr.push(4);", "arr.append(4)"},
		{"pop", "arr.pop();", "arr.popLast()"},
		{"unshift", "arr.unshift(1);", "arr.insert(at: 0, 1)"},
		{"includes", "arr.includes(3)", "arr.contains(3)"},
		{"join", `arr.join(", ")`, `arr.joined(separator: ", ")`},
		{"slice range", "arr.slice(1, 3)", "arr.prefix(3).suffix(from: 1)"},
		{"slice start", "arr.slice(2)", "arr.suffix(from: 2)"},
		{"splice", "items.splice(0, 1)", "items/* splice not directly supported in Swift - use removeSubrange or insert */0, 1)"},
		{"sort", "arr.sort()", "arr.sorted()"},
		{"upper", "name.toUpperCase()", "name.uppercased()"},
		{"trim", "s.trim()", "s.trimmingCharacters(in: .whitespacesAndNewlines)"},
		{"replace", `s.replace("a", "b")`, `s.replacingOccurrences(of: "a", with: "b")`},
		{"starts with", `s.startsWith("x")`, `s.hasPrefix("x")`},
		{"length", "s.length", "s.count"},
		{"math function", "Math.sqrt(16)", "sqrt(16)"},
		{"math pow", "Math.pow(2, 3)", "pow(2, 3)"},
		{"math pi", "Math.PI", "Double.pi"},
		{"math random", "Math.random()", "Double.random(in: 0..<1)"},
		{"exponent", "a ** b", "pow(a, b)"},
		{"modulo", "a % b", "a.truncatingRemainder(dividingBy: b)"},
		{"postfix increment", "x++;", "x += 1"},
		{"prefix decrement", "--y;", "y -= 1"},
		{"strict null", "if (a === null) {", "if a == nil {"},
		{"undefined", "let v = undefined;", "let v = nil"},
		{"strict inequality", "a !== b", "a != b"},
		{"empty object", "let o = {};", "let o = [:]"},
		{"array constructor", "let a = new Array(1, 2);", "let a = [1, 2]"},
		{"switch", "switch (day) {\n  case 1:\n    break;\n  default:\n    break;\n}", "switch day {\n  case 1:\n    break\n  default:\n    break\n}"},
		{"for each closure", "arr.forEach(item => { console.log(item) })", "arr.forEach { item  in print(item) }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Header+tt.want, Translate(tt.in))
		})
	}
}

func TestTranslate_UnicodeWhitespace(t *testing.T) {
	assert.Equal(t, Header+"for item in items {", Translate("for (let\u00a0item\u00a0of\u00a0items) {"))
	assert.Equal(t, Header+"while i < 10 {", Translate("while\u3000(i < 10) {"))
	assert.Equal(t, Header+"let x = 1", Translate("const\u2003x = 1;"))
}

func TestTranslate_TernaryKeepsTrailingSpace(t *testing.T) {
	assert.Equal(t, Header+"let y = a ? b  : c", Translate("let y = a ? b : c;"))
}

func TestTranslate_NoSemicolonsSurvive(t *testing.T) {
	out := Translate("let a = 1; let b = 2;\nconsole.log(a);")
	assert.NotContains(t, out, ";")
}

func TestTranslate_Deterministic(t *testing.T) {
	src := "function f(x) {\n  if (x === 1) {\n    return `v${x}`;\n  }\n  return x.length;\n}"
	assert.Equal(t, Translate(src), Translate(src))
}

func TestTranslate_TotalOnArbitraryInput(t *testing.T) {
	inputs := []string{
		"((((", "))))", "`unterminated", "${", "/* */", "\x00\xff", "a ? : b", "do {", "case :",
		strings.Repeat("x++ ", 100),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			out := Translate(in)
			_ = Translate(out)
		})
	}
}

func TestPipeline_Trace(t *testing.T) {
	out, results := Default().Trace("const x = 1;")
	require.Len(t, results, len(Default()))
	assert.Equal(t, Translate("const x = 1;"), out)

	assert.Equal(t, "declarations", results[0].Stage)
	assert.True(t, results[0].Changed)
	assert.Equal(t, "let x = 1", results[0].Output)

	last := results[len(results)-1]
	assert.Equal(t, "header", last.Stage)
	assert.True(t, last.Changed)
	assert.Equal(t, out, last.Output)

	// Nothing between declarations and header touches this input.
	for _, r := range results[1 : len(results)-1] {
		assert.False(t, r.Changed, "stage %s changed the text", r.Stage)
	}
}

func TestPipeline_TraceEmpty(t *testing.T) {
	out, results := Default().Trace(" ")
	assert.Equal(t, "", out)
	assert.Nil(t, results)
}

func TestPipeline_StageNames(t *testing.T) {
	names := Default().StageNames()
	require.Len(t, names, 22)
	assert.Equal(t, "declarations", names[0])
	assert.Equal(t, "terminators", names[1])
	assert.Equal(t, "header", names[21])
}

func TestPipeline_CustomTable(t *testing.T) {
	p := Pipeline{{Name: "shout", Rules: []Rule{Literal("a", "A")}}}
	assert.Equal(t, "bAnAnA", p.Translate("banana"))
}
