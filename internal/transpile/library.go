package transpile

// Closure forms must run before the plain method renames below.
var collectionStage = Stage{
	Name: "collections",
	Rules: []Rule{
		Replace(`\.forEach\(([^=>]+)\s*=>\s*\{([^}]*)\}\)`, `.forEach { ${1} in${2}}`),
		Replace(`\.map\(([^=>]+)\s*=>\s*\{([^}]*)\}\)`, `.map { ${1} in${2}}`),
		Replace(`\.filter\(([^=>]+)\s*=>\s*\{([^}]*)\}\)`, `.filter { ${1} in${2}}`),
		Literal(".push(", ".append("),
		Literal(".pop()", ".popLast()"),
		Literal(".shift()", ".removeFirst()"),
		Literal(".unshift(", ".insert(at: 0, "),
		Replace(`\.join\(([^)]*)\)`, `.joined(separator: ${1})`),
		Literal(".indexOf(", ".firstIndex(of: "),
		Literal(".lastIndexOf(", ".lastIndex(of: "),
		Literal(".includes(", ".contains("),
		ReplaceFunc(`\.slice\(([^,]+)(?:,\s*([^)]*))?\)`, sliceRange),
		Literal(".splice(", "/* splice not directly supported in Swift - use removeSubrange or insert */"),
		Literal(".reverse()", ".reversed()"),
		Literal(".sort()", ".sorted()"),
	},
}

// sliceRange maps slice(start[, end]) onto prefix/suffix. An empty end
// counts as absent.
func sliceRange(g []string) string {
	start, end := g[1], g[2]
	if end != "" {
		return ".prefix(" + end + ").suffix(from: " + start + ")"
	}
	return ".suffix(from: " + start + ")"
}

var literalStage = Stage{
	Name: "literals",
	Rules: []Rule{
		Replace(`new Array\(([^)]*)\)`, `[${1}]`),
		Literal("{}", "[:]"),
		Literal("new Object()", "[:]"),
	},
}

// The slice rule here only sees calls the collection stage left behind.
var stringStage = Stage{
	Name: "strings",
	Rules: []Rule{
		Literal(".substr(", ".substring(from: "),
		Literal(".toUpperCase()", ".uppercased()"),
		Literal(".toLowerCase()", ".lowercased()"),
		Literal(".trim()", ".trimmingCharacters(in: .whitespacesAndNewlines)"),
		Replace(`\.replace\(([^,]+),\s*([^)]+)\)`, `.replacingOccurrences(of: ${1}, with: ${2})`),
		Replace(`\.split\(([^)]+)\)`, `.split(separator: ${1})`),
		Replace(`\.charAt\(([^)]+)\)`, `[${1}]`),
		Replace(`\.slice\(([^)]+)\)`, `.dropFirst(${1})`),
		Replace(`\.startsWith\(([^)]+)\)`, `.hasPrefix(${1})`),
		Replace(`\.endsWith\(([^)]+)\)`, `.hasSuffix(${1})`),
	},
}

// Context free: any property named length is renamed.
var lengthStage = Stage{
	Name:  "length",
	Rules: []Rule{Literal(".length", ".count")},
}

var mathStage = Stage{
	Name: "math",
	Rules: append(mathFunctionRules(
		"abs", "sqrt", "floor", "ceil", "round", "min", "max",
		"sin", "cos", "tan", "log", "log10", "exp",
	),
		Replace(`Math\.pow\(([^,]+),\s*([^)]+)\)`, `pow(${1}, ${2})`),
		Literal("Math.random()", "Double.random(in: 0..<1)"),
		Literal("Math.PI", "Double.pi"),
		Literal("Math.E", "M_E"),
		Replace(`(\w+)\s*\*\*\s*(\w+)`, `pow(${1}, ${2})`),
		Replace(`(\w+)\s*%\s*(\w+)`, `${1}.truncatingRemainder(dividingBy: ${2})`),
	),
}

func mathFunctionRules(names ...string) []Rule {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		rules = append(rules, Literal("Math."+name+"(", name+"("))
	}
	return rules
}
