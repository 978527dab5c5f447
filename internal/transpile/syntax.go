package transpile

import "regexp"

const ident = `[a-zA-Z0-9_]+`

var declarationStage = Stage{
	Name: "declarations",
	Rules: []Rule{
		Replace(`var\s+(`+ident+`)\s*=\s*([^;]+);`, `var ${1} = ${2}`),
		Replace(`let\s+(`+ident+`)\s*=\s*([^;]+);`, `let ${1} = ${2}`),
		Replace(`const\s+(`+ident+`)\s*=\s*([^;]+);`, `let ${1} = ${2}`),
	},
}

var terminatorStage = Stage{
	Name:  "terminators",
	Rules: []Rule{Literal(";", "")},
}

var functionStage = Stage{
	Name: "functions",
	Rules: []Rule{
		Replace(`function\s+(`+ident+`)\s*\(([^)]*)\)\s*\{`, `func ${1}(${2}) {`),
	},
}

var arrowStage = Stage{
	Name: "arrow-functions",
	Rules: []Rule{
		Replace(`\(([^)]*)\)\s*=>\s*\{`, `func(${1}) {`),
	},
}

var outputStage = Stage{
	Name: "output",
	Rules: []Rule{
		Replace(`(?:console\.log|window\.alert)\s*\(([^)]*)\)`, `print(${1})`),
		Replace(`window\.alert\s*\(([^)]*)\)`, `print(${1})`),
		Replace(`document\.write\s*\(([^)]*)\)`, `print(${1})`),
		Replace(`alert\s*\(([^)]*)\)`, `print(${1})`),
	},
}

var printQuoteStage = Stage{
	Name: "print-quotes",
	Rules: []Rule{
		Replace(`print\('([^']*)'\)`, `print("${1}")`),
	},
}

var concatenationStage = Stage{
	Name: "concatenation",
	Rules: []Rule{
		Replace(`print\("([^"]*)"\s*\+\s*([^)]*)\)`, `print("${1}\(${2})")`),
		Replace(`("[^"]*")\s*\+\s*([^\s;,)]+)`, `${1} + "\(${2})"`),
		Replace(`([^\s;,+()]+)\s*\+\s*("[^"]*")`, `"\(${1})" + ${2}`),
	},
}

var interpolation = regexp.MustCompile(`\$\{([^}]*)\}`)

// Template literals may span lines; [^`] matches newlines.
var templateLiteralStage = Stage{
	Name: "template-literals",
	Rules: []Rule{
		ReplaceFunc("`([^`]*(?:\\$\\{[^}]*\\}[^`]*)*)`", func(g []string) string {
			return `"` + interpolation.ReplaceAllString(g[1], `\(${1})`) + `"`
		}),
	},
}

var conditionalStage = Stage{
	Name: "conditionals",
	Rules: []Rule{
		Replace(`if\s*\(([^)]*)\)\s*\{`, `if ${1} {`),
		Replace(`\}\s*else\s*if\s*\(([^)]*)\)\s*\{`, `} else if ${1} {`),
		Replace(`\}\s*else\s*\{`, `} else {`),
	},
}

var forLoopStage = Stage{
	Name: "for-loops",
	Rules: []Rule{
		Replace(`for\s*\(let\s+(`+ident+`)\s*=\s*([^;]+);\s*([^;]+);\s*([^)]*)\)\s*\{`, `for var ${1} = ${2}; ${3}; ${4} {`),
		Replace(`for\s*\(let\s+(`+ident+`)\s+of\s+([^)]*)\)\s*\{`, `for ${1} in ${2} {`),
		Replace(`for\s*\(let\s+(`+ident+`)\s+in\s+([^)]*)\)\s*\{`, `for ${1} in ${2} {`),
	},
}

var whileLoopStage = Stage{
	Name: "while-loops",
	Rules: []Rule{
		Replace(`while\s*\(([^)]*)\)\s*\{`, `while ${1} {`),
		Replace(`do\s*\{([^}]*)\}\s*while\s*\(([^)]*)\);?`, `repeat {${1}} while ${2}`),
	},
}

var incrementStage = Stage{
	Name: "increments",
	Rules: []Rule{
		Replace(`(`+ident+`)\+\+`, `${1} += 1`),
		Replace(`(`+ident+`)--`, `${1} -= 1`),
		Replace(`\+\+(`+ident+`)`, `${1} += 1`),
		Replace(`--(`+ident+`)`, `${1} -= 1`),
	},
}

// The comparison rules run after the bare literals are already nil, so they
// only fire on text the literal rules could not touch.
var nilStage = Stage{
	Name: "nil",
	Rules: []Rule{
		Literal("null", "nil"),
		Literal("undefined", "nil"),
		Replace(`([a-zA-Z0-9_.]+)\s*===\s*null`, `${1} == nil`),
		Replace(`([a-zA-Z0-9_.]+)\s*!==\s*null`, `${1} != nil`),
		Replace(`([a-zA-Z0-9_.]+)\s*===\s*undefined`, `${1} == nil`),
		Replace(`([a-zA-Z0-9_.]+)\s*!==\s*undefined`, `${1} != nil`),
	},
}

var equalityStage = Stage{
	Name: "equality",
	Rules: []Rule{
		Replace(`===\s`, `== `),
		Replace(`!==\s`, `!= `),
		Replace(`==\s`, `== `),
		Replace(`!=\s`, `!= `),
	},
}

var ternaryStage = Stage{
	Name: "ternary",
	Rules: []Rule{
		Replace(`([^\s]+)\s*\?\s*([^:]+)\s*:\s*([^;\s]+)`, `${1} ? ${2} : ${3}`),
	},
}

var switchStage = Stage{
	Name: "switch",
	Rules: []Rule{
		Replace(`switch\s*\(([^)]*)\)\s*\{`, `switch ${1} {`),
		Replace(`case\s+([^:]+):`, `case ${1}:`),
		Replace(`break;?`, `break`),
	},
}

var headerStage = Stage{
	Name:  "header",
	Rules: []Rule{Replace(`\A`, Header)},
}
