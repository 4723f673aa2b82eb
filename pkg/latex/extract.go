package latex

import (
	"regexp"
	"strings"
)

const (
	maxEquations  = 5
	sampleLength  = 500
	missingScalar = "N/A"
)

var (
	titlePattern    = regexp.MustCompile(`(?s)\\title\{(.+?)\}`)
	abstractPattern = regexp.MustCompile(`(?s)\\begin\{abstract\}(.+?)\\end\{abstract\}`)
	yearPattern     = regexp.MustCompile(`(19|20)\d{2}`)
	citePattern     = regexp.MustCompile(`\\cite[tp]?\{(.+?)\}`)
	equationPattern = regexp.MustCompile(`(?s)\\begin\{equation\}(.+?)\\end\{equation\}`)
	displayPattern  = regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)
	tablePattern    = regexp.MustCompile(`(?s)\\begin\{table\}.+?\\end\{table\}`)
	figurePattern   = regexp.MustCompile(`(?s)\\begin\{figure\}.*?\\end\{figure\}`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// TextSample holds the head and tail of the cleaned paper body.
type TextSample struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Features is the structured metadata extracted from one .tex file.
type Features struct {
	Title          string     `json:"title"`
	Abstract       string     `json:"abstract"`
	Year           string     `json:"year"`
	MainTextSample TextSample `json:"main_text_sample"`
	Citations      []string   `json:"citations"`
	Equations      []string   `json:"equations"`
	FirstTable     string     `json:"first_table"`
}

// ExtractFeatures runs the regex extractors over the raw content of a LaTeX
// paper. Fields with no match come back as "N/A" (scalars) or empty slices.
func ExtractFeatures(content string) Features {
	return Features{
		Title:          extractTitle(content),
		Abstract:       extractAbstract(content),
		Year:           extractYear(content),
		MainTextSample: extractMainTextSample(content),
		Citations:      extractCitations(content),
		Equations:      extractEquations(content),
		FirstTable:     extractTable(content),
	}
}

func extractTitle(text string) string {
	if m := titlePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return missingScalar
}

func extractAbstract(text string) string {
	if m := abstractPattern.FindStringSubmatch(text); m != nil {
		return whitespaceRun.ReplaceAllString(strings.TrimSpace(m[1]), " ")
	}
	return missingScalar
}

func extractYear(text string) string {
	if m := yearPattern.FindString(text); m != "" {
		return m
	}
	return missingScalar
}

func extractCitations(text string) []string {
	matches := citePattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	citations := []string{}
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		citations = append(citations, m[1])
	}
	return citations
}

func extractEquations(text string) []string {
	equations := []string{}
	for _, m := range equationPattern.FindAllStringSubmatch(text, -1) {
		equations = append(equations, strings.TrimSpace(m[1]))
	}
	for _, m := range displayPattern.FindAllStringSubmatch(text, -1) {
		equations = append(equations, strings.TrimSpace(m[1]))
	}
	if len(equations) > maxEquations {
		equations = equations[:maxEquations]
	}
	return equations
}

func extractTable(text string) string {
	if m := tablePattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return missingScalar
}

// stripFloats removes figure, table and math environments so the sample
// reflects running prose rather than markup.
func stripFloats(text string) string {
	text = figurePattern.ReplaceAllString(text, "")
	text = tablePattern.ReplaceAllString(text, "")
	text = equationPattern.ReplaceAllString(text, "")
	text = displayPattern.ReplaceAllString(text, "")
	return text
}

func extractMainTextSample(text string) TextSample {
	clean := stripFloats(text)
	start := clean
	if len(start) > sampleLength {
		start = start[:sampleLength]
	}
	end := clean
	if len(end) > sampleLength {
		end = end[len(end)-sampleLength:]
	}
	return TextSample{
		Start: strings.TrimSpace(start),
		End:   strings.TrimSpace(end),
	}
}
