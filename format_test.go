package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats_RoundTrip(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		for _, in := range [][]byte{{}, {0x00, 0xff, 0x10}, []byte("text")} {
			out, err := BytesFormat.FromBytes(BytesFormat.ToBytes(in))
			require.NoError(t, err)
			assert.True(t, BytesFormat.Equal(in, out))
		}
	})

	t.Run("lines", func(t *testing.T) {
		for _, in := range []string{"", "a", "a\nb\n", "\n\n", "café ☃"} {
			out, err := LinesFormat.FromBytes(LinesFormat.ToBytes(in))
			require.NoError(t, err)
			assert.Equal(t, in, out)
		}
	})

	t.Run("cbor", func(t *testing.T) {
		in, err := cborMode.Marshal(map[string]int{"a": 1})
		require.NoError(t, err)
		out, err := CBORFormat.FromBytes(CBORFormat.ToBytes(in))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
}

func TestLinesFormat_Diff(t *testing.T) {
	msg, attachments, differs := LinesFormat.Diff("a\nb\nc", "a\nx\nc", DiffOptions{Context: 4})

	require.True(t, differs)
	assert.Equal(t, "Diff: …\n\n@@ -1,3 +1,3 @@\n a\n-b\n+x\n c", msg)
	require.Len(t, attachments, 1)
	assert.Equal(t, "difference.patch", attachments[0].Name)
	assert.Equal(t, PatchType, attachments[0].Type)
	assert.Equal(t, "@@ -1,3 +1,3 @@\n a\n-b\n+x\n c", string(attachments[0].Data))
}

func TestLinesFormat_NoDiff(t *testing.T) {
	for _, s := range []string{"", "same\ntext"} {
		msg, attachments, differs := LinesFormat.Diff(s, s, DiffOptions{Context: 4})
		assert.False(t, differs)
		assert.Empty(t, msg)
		assert.Empty(t, attachments)
	}
}

func TestLinesFormat_TrailingNewlineIsSignificant(t *testing.T) {
	assert.False(t, LinesFormat.Equal("a\n", "a"))

	_, _, differs := LinesFormat.Diff("a\n", "a", DiffOptions{Context: 4})
	assert.True(t, differs)
}

func TestLinesFormat_EmptyReferenceIsOneEmptyLine(t *testing.T) {
	msg, attachments, differs := LinesFormat.Diff("", "hello", DiffOptions{Context: 4})

	require.True(t, differs)
	assert.Equal(t, "Diff: …\n\n@@ -1,1 +1,1 @@\n-\n+hello", msg)
	require.Len(t, attachments, 1)
	assert.Equal(t, "@@ -1,1 +1,1 @@\n-\n+hello", string(attachments[0].Data))
}

func TestBytesFormat_Diff(t *testing.T) {
	msg, attachments, differs := BytesFormat.Diff([]byte{1, 2, 3}, []byte{1, 2}, DiffOptions{})

	require.True(t, differs)
	assert.Equal(t, "Data do not match: 3 bytes (reference) vs 2 bytes (actual).", msg)
	assert.Empty(t, attachments)
}

func TestCBORFormat_Diff(t *testing.T) {
	ref, err := cborMode.Marshal(map[string]int{"a": 1, "b": 2})
	require.NoError(t, err)
	act, err := cborMode.Marshal(map[string]int{"a": 1, "b": 3})
	require.NoError(t, err)

	msg, attachments, differs := CBORFormat.Diff(ref, act, DiffOptions{Context: 4})

	require.True(t, differs)
	assert.Contains(t, msg, "CBOR documents differ")
	assert.Contains(t, msg, `-"b": 2}`)
	assert.Contains(t, msg, `+"b": 3}`)
	require.Len(t, attachments, 1)
}

func TestCBORFormat_DiffInvalidFallsBackToBytes(t *testing.T) {
	msg, _, differs := CBORFormat.Diff([]byte{0xff}, []byte{0xff, 0xff}, DiffOptions{})

	require.True(t, differs)
	assert.Equal(t, "Data do not match: 1 bytes (reference) vs 2 bytes (actual).", msg)
}
