package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/undokit/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMarkdown(t *testing.T) {
	md := DocumentMarkdown("car", map[string]any{"value": "$20,000", "color": "green"},
		session.Status{UndoDepth: 2, RedoDepth: 1, Limit: 500})

	assert.Equal(t, "## car\n\n"+
		"| field | value |\n|---|---|\n"+
		"| color | green |\n"+
		"| value | $20,000 |\n\n"+
		"undo: **2** · redo: **1** · limit: **500**\n", md)

	assert.Contains(t, DocumentMarkdown("x", nil, session.Status{}), "_empty document_")
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer()
	require.NoError(t, err)

	out, err := render("# title")
	require.NoError(t, err)
	assert.Contains(t, out, "title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "__,_|")
}
