package seed

import (
	"context"
	"strings"
	"testing"

	"versu/versu/sources/psql/dao"
	"versu/versu/sources/psql/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeedFile(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	require.Len(t, f.Prompts, 4)
	assert.Equal(t, "Asistente Amigable", f.Prompts[0].Name)
	assert.True(t, f.Prompts[0].Active)
	assert.NotContains(t, f.Prompts[0].Content, "\n")
}

func TestParseRejectsInvalidFiles(t *testing.T) {
	cases := map[string]string{
		"two active": "prompts:\n  - {name: Formal, content: Eres un asistente formal., active: true}\n  - {name: Amigable, content: Eres un asistente amigable., active: true}\n",
		"duplicate":  "prompts:\n  - {name: Formal, content: Eres un asistente formal.}\n  - {name: Formal, content: Eres otro asistente formal.}\n",
		"no content": "prompts:\n  - {name: a}\n",
		"unknown":    "prompts:\n  - {name: a, content: x, enabled: true}\n",
		"short name": "prompts:\n  - {name: X, content: Eres un asistente formal.}\n",
		"short body": "prompts:\n  - name: Formal\n    content: corto\n    active: true\n",
		"long desc":  "prompts:\n  - {name: Formal, content: Eres un asistente formal., description: " + strings.Repeat("a", 501) + "}\n",
	}
	_, err := Parse(strings.NewReader("prompts:\n  - {name: Formal, content: Eres un asistente formal., active: true}\n"))
	require.NoError(t, err)

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestPromptsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	prompts := dao.NewPromptDAO(testdb.New(t))
	f, err := Default()
	require.NoError(t, err)

	n, err := Prompts(ctx, prompts, f)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	first, err := prompts.GetPromptByName(ctx, "Asistente Amigable")
	require.NoError(t, err)

	_, err = Prompts(ctx, prompts, f)
	require.NoError(t, err)
	again, err := prompts.GetPromptByName(ctx, "Asistente Amigable")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	list, total, err := prompts.ListPrompts(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, list, 4)

	active, err := prompts.ListActivePrompts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Asistente Amigable", active[0].Name)
}
