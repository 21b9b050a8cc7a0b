package alfred

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_ShortQuery(t *testing.T) {
	for _, q := range []string{"", "hi", "  a  "} {
		fb := Preview(q)
		require.Len(t, fb.Items, 1, q)
		assert.False(t, fb.Items[0].Valid, q)
		assert.Empty(t, fb.Items[0].Arg, q)
	}
}

func TestPreview_Query(t *testing.T) {
	fb := Preview("Lunch with Anna tomorrow at noon")
	require.Len(t, fb.Items, 2)

	create := fb.Items[0]
	assert.True(t, create.Valid)
	assert.Equal(t, "Lunch with Anna tomorrow at noon", create.Arg)
	assert.Contains(t, create.Title, "Create Event:")

	assert.False(t, fb.Items[1].Valid)
}

func TestFeedback_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview("Team meeting monday at 2pm").Write(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	items, ok := decoded["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}
