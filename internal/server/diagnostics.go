package server

import (
	"fmt"
	"strings"

	"ejsd/internal/lsp"
)

// The one spelling this server warns about.
const badSpelling = "typescript"

// findDiagnostics scans documentText line by line and reports the first
// occurrence of "typescript" per line, at most maxProblems in total. The cap
// is a hard stop: once reached, remaining lines are not examined. Lines may
// be terminated by either LF or CRLF.
func findDiagnostics(documentText, source string, maxProblems int) []lsp.Diagnostic {
	diagnostics := []lsp.Diagnostic{}

	for i, line := range strings.Split(documentText, "\n") {
		if len(diagnostics) >= maxProblems {
			break
		}

		col := strings.Index(line, badSpelling)
		if col < 0 {
			continue
		}

		matched := line[col : col+len(badSpelling)]
		diagnostics = append(diagnostics, lsp.Diagnostic{
			Range: lsp.NewRange(
				uint(i),
				uint(col),
				uint(i),
				uint(col+len(badSpelling)),
			),
			Severity: lsp.DiagnosticWarning,
			Code:     nil,
			Source:   source,
			Message:  fmt.Sprintf("%s should be spelled TypeScript", matched),
		})
	}

	return diagnostics
}
