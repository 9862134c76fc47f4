package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/undokit/pkg/session"
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(string) (string, error)

// NewRenderer returns a Renderer using glamour.
func NewRenderer() (Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render, nil
}

// Plain returns markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// DocumentMarkdown describes a document and its history as markdown.
func DocumentMarkdown(id string, fields map[string]any, st session.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", id)

	if len(fields) == 0 {
		b.WriteString("_empty document_\n\n")
	} else {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("| field | value |\n|---|---|\n")
		for _, name := range names {
			fmt.Fprintf(&b, "| %s | %v |\n", name, fields[name])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "undo: **%d** · redo: **%d** · limit: **%d**\n", st.UndoDepth, st.RedoDepth, st.Limit)
	return b.String()
}
