package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa/paperqa/pkg/client"
)

func TestReadQuestionFromArgs(t *testing.T) {
	var out bytes.Buffer
	q, err := readQuestion([]string{"What", "is", "measured?"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "What is measured?", q)
	assert.Empty(t, out.String(), "no prompt expected when args are given")
}

func TestReadQuestionInteractive(t *testing.T) {
	var out bytes.Buffer
	q, err := readQuestion(nil, strings.NewReader("What is the main contribution?\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "What is the main contribution?", q)
	assert.Contains(t, out.String(), "Enter your question:")
}

func TestReadQuestionEmpty(t *testing.T) {
	var out bytes.Buffer

	_, err := readQuestion([]string{"   "}, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, client.ErrEmptyQuestion)

	_, err = readQuestion(nil, strings.NewReader("\n"), &out)
	assert.ErrorIs(t, err, client.ErrEmptyQuestion)

	_, err = readQuestion(nil, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, client.ErrEmptyQuestion)
}
