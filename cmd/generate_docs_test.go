package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFromToolName(t *testing.T) {
	tests := map[string]string{
		"grid_render":           "Grid Tools",
		"theme_css":             "Theme Tools",
		"calendar_list_events":  "Google Calendar Tools",
		"calendar_delete_event": "Google Calendar Tools",
		"unknown":               "Other",
	}
	for name, want := range tests {
		assert.Equal(t, want, categoryFromToolName(name), name)
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	useDefaultConfig(t)

	tools, err := listTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 7)

	md := generateToolsMarkdown(tools)

	for _, want := range []string{
		"# MCP Tools Reference",
		"- [Google Calendar Tools](#google-calendar-tools)",
		"## Grid Tools",
		"## Theme Tools",
		"### grid_render\n",
		"### calendar_create_event (*write*)",
		"### calendar_delete_event (*write*)",
		"- `summary` (string, required): ",
		"`account` (string, optional)",
		"One of: `1`, `3`, `7`.",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "### calendar_list_events (*write*)")
	assert.NotContains(t, md, "## Other")
}
