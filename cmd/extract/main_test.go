package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa/paperqa/pkg/latex"
)

func TestExtractDir(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	paper := `\title{A Study}
\begin{abstract}We measure things.\end{abstract}
Published 2021. See \cite{prior}.`
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "study.tex"), []byte(paper), 0644))

	var out bytes.Buffer
	require.NoError(t, extractDir(inputDir, outputDir, &out))

	assert.Contains(t, out.String(), "Processing: study.tex")

	data, err := os.ReadFile(filepath.Join(outputDir, "study.json"))
	require.NoError(t, err)

	var features latex.Features
	require.NoError(t, json.Unmarshal(data, &features))
	assert.Equal(t, "A Study", features.Title)
	assert.Equal(t, "We measure things.", features.Abstract)
	assert.Equal(t, "2021", features.Year)
	assert.Equal(t, []string{"prior"}, features.Citations)
}

func TestExtractDirNoPapers(t *testing.T) {
	var out bytes.Buffer
	err := extractDir(t.TempDir(), t.TempDir(), &out)
	assert.Error(t, err)
}
