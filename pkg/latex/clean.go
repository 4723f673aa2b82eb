// Package latex implements the regex-based processing applied to LaTeX
// papers before indexing, plus the structured metadata extractor.
package latex

import "regexp"

var (
	commentLine = regexp.MustCompile(`(?m)^%.*$`)
	environment = regexp.MustCompile(`(?s)\\begin\{.*?\}.*?\\end\{.*?\}`)
	command     = regexp.MustCompile(`\\[A-Za-z]+(\[[^\]]*\])?(\{[^}]*\})?`)
)

// Clean strips LaTeX markup down to plain prose: comment lines, whole
// environments, then any remaining \command[opt]{arg} forms. Each removed
// piece is replaced with a space so word boundaries survive.
func Clean(text string) string {
	text = commentLine.ReplaceAllString(text, " ")
	text = environment.ReplaceAllString(text, " ")
	text = command.ReplaceAllString(text, " ")
	return text
}
