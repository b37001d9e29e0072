package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0", false)
	assert.Contains(t, buf.String(), "v0.1.0")
	assert.Contains(t, buf.String(), "Demo modu")

	buf.Reset()
	PrintBanner(&buf, "0.1.0", true)
	assert.Contains(t, buf.String(), "Gemini bağlı")
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	require.NoError(t, err)

	out, err := render("**Merhaba** dostum")
	require.NoError(t, err)
	assert.Contains(t, out, "Merhaba")
	assert.NotContains(t, out, "**")
}
