// Package diagfmt renders a diag.Bag as human-readable text: a
// file:line:col header per diagnostic plus a source-line preview with a
// caret underline, colorized and column-width aware. It is a thin,
// deliberately shallow CLI convenience over the core diagnostic model,
// trimmed to the subset this compiler's simpler Diagnostic shape (no
// Fix/preview machinery) actually carries.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ace/internal/diag"
	"ace/internal/source"
)

// Options controls Pretty's output.
type Options struct {
	Color     bool
	Context   int // lines of context above/below the primary line
	ShowNotes bool
}

// Pretty writes every diagnostic in bag to w in the form:
//
//	<path>:<line>:<col>: <SEVERITY> <CODE>: <message>
//	  <n> | <source line>
//	            ~~~~^
//
// The underline has no gutter bar: `~` covers the diagnostic's span and
// `^` marks its last byte.
func Pretty(w io.Writer, bag *diag.Bag, opts Options) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	codeColor := color.New(color.FgMagenta)
	lineNumColor := color.New(color.FgBlue)
	underlineColor := color.New(color.FgRed, color.Bold)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	context := opts.Context
	if context <= 0 {
		context = 1
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w) //nolint:errcheck
		}

		line, col := position(d.Loc)
		var sevColored string
		switch d.Severity {
		case diag.Error:
			sevColored = errorColor.Sprint(d.Severity.String())
		case diag.Warning:
			sevColored = warningColor.Sprint(d.Severity.String())
		default:
			sevColored = infoColor.Sprint(d.Severity.String())
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", //nolint:errcheck
			pathColor.Sprint(d.Loc.Buf.Name()), line, col, sevColored, codeColor.Sprint(d.Code.String()), d.Message)

		printSourceContext(w, d.Loc, context, lineNumColor, underlineColor)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				nLine, nCol := position(n.Loc)
				fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n", //nolint:errcheck
					infoColor.Sprint("note"), pathColor.Sprint(n.Loc.Buf.Name()), nLine, nCol, n.Message)
			}
		}
	}

	if len(bag.Items()) > 0 {
		fmt.Fprintln(w) //nolint:errcheck
		printSummary(w, bag)
	}
}

// printSummary writes a pluralized "N error(s), N warning(s)" trailer,
// the way a CLI typically closes out a diagnostic report.
func printSummary(w io.Writer, bag *diag.Bag) {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.Error:
			errs++
		case diag.Warning:
			warns++
		}
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%d %s, %d %s\n", errs, plural("error", errs), warns, plural("warning", warns)) //nolint:errcheck
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

// position computes a 1-based line/column for loc's starting offset by
// scanning its buffer's contents. Diagnostics are a CLI-reporting path,
// not the compiler's hot path, so an O(n) scan per diagnostic is an
// acceptable trade for not requiring every caller to thread a
// source.FileSet through just to format output.
func position(loc source.Location) (line, col int) {
	text := loc.Buf.Contents()
	line, col = 1, 1
	for i := 0; i < loc.Begin && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func lineText(text string, targetLine int) string {
	line := 1
	start := 0
	for i := 0; i < len(text); i++ {
		if line == targetLine {
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return text[i:]
			}
			return text[i : i+end]
		}
		if text[i] == '\n' {
			line++
			start = i + 1
		}
	}
	if line == targetLine {
		return text[start:]
	}
	return ""
}

func totalLines(text string) int {
	if text == "" {
		return 1
	}
	n := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n++
		}
	}
	return n
}

func printSourceContext(w io.Writer, loc source.Location, context int, lineNumColor, underlineColor *color.Color) {
	text := loc.Buf.Contents()
	line, col := position(loc)
	total := totalLines(text)

	startLine := line - context
	if startLine < 1 {
		startLine = 1
	}
	endLine := line + context
	if endLine > total {
		endLine = total
	}

	width := len(fmt.Sprintf("%d", endLine))
	if width < 3 {
		width = 3
	}

	for l := startLine; l <= endLine; l++ {
		lt := lineText(text, l)
		fmt.Fprintf(w, "%*d%s %s\n", width, l, lineNumColor.Sprint(" |"), lt) //nolint:errcheck
		if l == line {
			visual := 0
			for i, r := range lt {
				if i >= col-1 {
					break
				}
				visual += runewidth.RuneWidth(r)
			}
			span := loc.End - loc.Begin
			if span <= 0 {
				span = 1
			}
			var underline strings.Builder
			underline.WriteString(strings.Repeat(" ", width+3))
			underline.WriteString(strings.Repeat(" ", visual))
			for i := 0; i < span; i++ {
				if i == span-1 {
					underline.WriteByte('^')
				} else {
					underline.WriteByte('~')
				}
			}
			fmt.Fprintln(w, underlineColor.Sprint(underline.String())) //nolint:errcheck
		}
	}
}
