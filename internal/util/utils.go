package util

import (
	"fmt"
	"strings"
)

// GetLineAndColumn converts a byte offset into 1-based line and column.
func GetLineAndColumn(src string, pos int) (line int, column int) {
	line = 1
	column = 1
	for i, char := range src {
		if i >= pos {
			break
		}
		if char == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

// GetContextLines renders up to two lines before errorLine plus the error
// line itself, with a caret under errorCol.
func GetContextLines(src string, errorLine, errorCol int) string {
	lines := strings.Split(src, "\n")
	if errorLine < 1 || errorLine > len(lines) {
		return ""
	}

	var result strings.Builder

	startLine := errorLine - 2
	if startLine < 1 {
		startLine = 1
	}

	for i := startLine; i <= errorLine; i++ {
		lineContent := lines[i-1]
		if i != errorLine {
			result.WriteString(fmt.Sprintf("     %3d | %s\n", i, lineContent))
			continue
		}

		margin := fmt.Sprintf("  >  %3d | ", i)
		result.WriteString(margin + lineContent + "\n")

		prefix := []rune(lineContent)
		if errorCol-1 < len(prefix) {
			prefix = prefix[:errorCol-1]
		}
		result.WriteString(replaceVisibleWithSpaces(margin+string(prefix)) + "^ here")
	}

	return result.String()
}

// replaceVisibleWithSpaces replaces all non-whitespace characters with spaces
// while preserving tabs for correct alignment.
func replaceVisibleWithSpaces(s string) string {
	var buf strings.Builder
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
