// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/swiftblocks/internal/store"
	"github.com/jonathan/swiftblocks/internal/transpile"
	"github.com/jonathan/swiftblocks/internal/xcodeproj"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintTrace outputs which translation stages changed the source.
func (p *Printer) PrintTrace(source string, results []transpile.StageResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Input: %d lines, %d bytes\n\n", lineCount(source), len(source)))

	changed := 0
	for _, r := range results {
		if !r.Changed {
			continue
		}
		changed++
		sb.WriteString(fmt.Sprintf("✓ %s\n", r.Stage))
	}
	if changed == 0 {
		sb.WriteString("no stage changed the input\n")
	}

	sb.WriteString(fmt.Sprintf("\n%d of %d stages applied", changed, len(results)))
	p.printBox("TRANSLATION STAGES", sb.String())
}

// PrintFileTree outputs the files of a materialized project.
func (p *Printer) PrintFileTree(name string, tree xcodeproj.FileTree) {
	if len(tree) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Project:  %s\n", name))
	sb.WriteString(fmt.Sprintf("Files:    %d (%d bytes)\n\n", len(tree), tree.Size()))
	for _, path := range tree.Paths() {
		sb.WriteString(fmt.Sprintf("  %s\n", path))
	}

	p.printBox("PROJECT FILES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEntries outputs the members of an archive with their compression.
func (p *Printer) PrintEntries(entries []xcodeproj.Entry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	var total, compressed uint64
	for _, e := range entries {
		method := "stored"
		if e.Deflated() {
			method = "deflate"
		}
		sb.WriteString(fmt.Sprintf("%7d %7d %-7s %s\n", e.Size, e.CompressedSize, method, e.Name))
		total += e.Size
		compressed += e.CompressedSize
	}
	sb.WriteString(fmt.Sprintf("\n%d entries, %d bytes, %d compressed", len(entries), total, compressed))

	p.printBox("ARCHIVE ENTRIES", sb.String())
}

// PrintExport outputs the record of a stored export.
func (p *Printer) PrintExport(rec *store.Record) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", rec.ID))
	sb.WriteString(fmt.Sprintf("Project:  %s\n", rec.ProjectName))
	sb.WriteString(fmt.Sprintf("File:     %s\n", rec.FileName))
	sb.WriteString(fmt.Sprintf("Size:     %d bytes, %d entries\n", rec.Size, rec.Entries))
	sb.WriteString(fmt.Sprintf("SHA-256:  %s", rec.SHA256))

	p.printBox("EXPORT", sb.String())
}

// PrintProblems outputs problems found while checking an archive.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProblems(problems []string) {
	if len(problems) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO PROBLEMS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(problems)))
	count := min(len(problems), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", problems[i]))
	}
	if len(problems) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(problems)-maxItemsToShow))
	}

	p.printBox("ARCHIVE PROBLEMS", strings.TrimSuffix(sb.String(), "\n"))
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}
