// Package prompt assembles the grounding prompt sent to the LLM for each
// question.
package prompt

import (
	"fmt"
	"strings"

	"github.com/paperqa/paperqa/pkg/types"
)

const role = "You are an advanced research assistant trained to read and interpret scientific papers written in LaTeX. " +
	"You will be given text excerpts (chunks) from one or more papers. Your job is to answer the question with as much detail and scientific accuracy as possible."

const task = "Using ONLY the provided context, answer the user's question in a thorough, well-reasoned, and scientific manner. " +
	"If the context does not directly answer the question, you MUST still attempt to infer the most likely conclusion based on what IS present. " +
	"NEVER reply with 'Not enough information' or similar phrases. Instead, explain what the text *does* discuss and how it might relate to the question. " +
	"If relevant, summarize how the paper approaches the topic even indirectly. " +
	"Your response should read like a detailed explanation from a graduate-level research assistant."

const schema = `{
  "answer": "A detailed explanation of the conclusion, result, or best related insight from the context, including reasoning and context references.",
  "references": ["List of chunk references or paper identifiers that support your answer."]
}`

// Build renders the full prompt: role, retrieved context with source
// identifiers, task instructions with the required JSON schema, and the
// user's query.
func Build(query string, chunks []types.Chunk) string {
	contextLines := make([]string, 0, len(chunks))
	for _, c := range chunks {
		contextLines = append(contextLines,
			fmt.Sprintf("---\nSOURCE: %s\nCONTENT:\n\"%s\"\n---", c.Reference, c.Text))
	}
	context := strings.Join(contextLines, "\n\n")

	return fmt.Sprintf("%s\n\n<context>\n%s\n</context>\n\n<task>\n%s\n%s\n</task>\n\n<query>\n%s\n</query>",
		role, context, task, schema, query)
}
