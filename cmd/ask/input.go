package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/paperqa/paperqa/pkg/client"
)

// readQuestion takes the question from the command arguments, or prompts for
// one line of input when none were given. Empty or whitespace-only questions
// are rejected before any request is made.
func readQuestion(args []string, in io.Reader, out io.Writer) (string, error) {
	if len(args) > 0 {
		return client.NormalizeQuestion(strings.Join(args, " "))
	}

	fmt.Fprint(out, "Enter your question: ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", client.ErrEmptyQuestion
	}
	return client.NormalizeQuestion(scanner.Text())
}
