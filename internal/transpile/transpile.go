// Package transpile rewrites JavaScript source text into Swift source text.
//
// The rewrite is purely textual: an ordered table of regular-expression
// substitutions, each applied globally to the output of the previous one.
// There is no tokenizer and no syntax tree, so constructs the table does not
// anticipate pass through unchanged or come out mangled. Callers get text
// back for every input and must treat the result as a best-effort draft.
package transpile

import "strings"

// Header is prepended to every non-empty translation.
const Header = "// Swift code converted from JavaScript\n"

// Stage is a named, ordered group of rules.
type Stage struct {
	Name  string
	Rules []Rule
}

// Apply runs every rule of the stage in order.
func (s Stage) Apply(text string) string {
	for _, r := range s.Rules {
		text = r.Apply(text)
	}
	return text
}

// Pipeline is the full ordered rewrite table.
type Pipeline []Stage

// StageResult records what one stage did during a traced translation.
type StageResult struct {
	Stage   string
	Changed bool
	Output  string
}

var defaultPipeline = Pipeline{
	declarationStage,
	terminatorStage,
	functionStage,
	arrowStage,
	outputStage,
	printQuoteStage,
	concatenationStage,
	templateLiteralStage,
	conditionalStage,
	forLoopStage,
	whileLoopStage,
	collectionStage,
	literalStage,
	stringStage,
	lengthStage,
	mathStage,
	incrementStage,
	nilStage,
	equalityStage,
	ternaryStage,
	switchStage,
	headerStage,
}

// Default returns the standard JavaScript to Swift table.
func Default() Pipeline {
	return defaultPipeline
}

// Translate converts JavaScript text to Swift text with the default table.
// Empty or whitespace-only input yields "".
func Translate(source string) string {
	return defaultPipeline.Translate(source)
}

// Translate runs every stage over source.
func (p Pipeline) Translate(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	text := source
	for _, stage := range p {
		text = stage.Apply(text)
	}
	return text
}

// Trace is Translate that also reports the text after each stage.
func (p Pipeline) Trace(source string) (string, []StageResult) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	results := make([]StageResult, 0, len(p))
	text := source
	for _, stage := range p {
		next := stage.Apply(text)
		results = append(results, StageResult{
			Stage:   stage.Name,
			Changed: next != text,
			Output:  next,
		})
		text = next
	}
	return text, results
}

// StageNames lists the stages in application order.
func (p Pipeline) StageNames() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}
