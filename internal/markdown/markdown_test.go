package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBlocks = "Here you go:\n" +
	"```python\nprint(1)\n```\n" +
	"and the fixed one:\n" +
	"```python\nprint(2)\n```\n"

func TestExtractFirstAndLast(t *testing.T) {
	got, err := Extract(twoBlocks, "python", First)
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", got)

	got, err = Extract(twoBlocks, "python", Last)
	require.NoError(t, err)
	assert.Equal(t, "print(2)\n", got)
}

func TestExtractSkipsOtherTags(t *testing.T) {
	text := "```bash\npip install x\n```\n```Python\nx = 1\n```\n```bash\necho\n```\n"
	got, err := Extract(text, "python", Last)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", got)

	got, err = Extract(text, "", First)
	require.NoError(t, err)
	assert.Equal(t, "pip install x\n", got)
}

func TestExtractOuterKeepsNestedFences(t *testing.T) {
	text := "```python\ndef f():\n    '''\n    ```\n    example\n    ```\n    '''\n```\ntrailing words"
	got, err := Extract(text, "python", Outer)
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    '''\n    ```\n    example\n    ```\n    '''\n", got)
}

func TestExtractNoFence(t *testing.T) {
	for _, pos := range []Position{First, Last, Outer} {
		got, err := Extract("plain text only", "python", pos)
		require.ErrorIs(t, err, ErrNoFence)
		assert.Empty(t, got)
	}
	_, err := Extract("```js\nx\n```", "python", First)
	require.ErrorIs(t, err, ErrNoFence)
}

func TestExtractUnclosedReturnsRemainder(t *testing.T) {
	text := "intro\n```python\nx = 1\ny = 2"
	for _, pos := range []Position{First, Last, Outer} {
		got, err := Extract(text, "python", pos)
		require.ErrorIs(t, err, ErrUnclosed)
		assert.Equal(t, "x = 1\ny = 2\n", got)
	}
}

func TestExtractCRLF(t *testing.T) {
	got, err := Extract("```python\r\na = 1\r\n```\r\n", "python", First)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", got)
}

func TestClean(t *testing.T) {
	in := "```markdown\n# Title   \n\n\n\n<!-- generated -->\nBody\n```\n"
	assert.Equal(t, "# Title\n\nBody\n", Clean(in))

	plain := "# Doc\n\n![logo](logo.png)\n"
	assert.Equal(t, plain, Clean(plain))
	assert.Empty(t, Clean("  \n\n"))
}
