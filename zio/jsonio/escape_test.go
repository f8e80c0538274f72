package jsonio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendString(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"tab\there", `"tab\there"`},
		{"\b\f\n\r", `"\b\f\n\r"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"héllo 世界", `"héllo 世界"`},
		{"/<>&", `"/<>&"`},
		{"\x7f", "\"\x7f\""},
		{"a\xffb", "\"a\uFFFDb\""},
		{"\xe4\xb8", "\"\uFFFD\uFFFD\""},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, string(AppendString(nil, c.in)), "input %q", c.in)
		assert.Equal(t, string(AppendString(nil, c.in)), string(AppendString(nil, []byte(c.in))), "input %q", c.in)
	}
}

func TestAppendStringRoundTrip(t *testing.T) {
	for _, s := range []string{"x y", "quote\"s", "\u0001\u0002", "emoji 🙂"} {
		var out string
		require.NoError(t, json.Unmarshal(AppendString(nil, s), &out))
		assert.Equal(t, s, out)
	}
}

func TestAppendStringAppends(t *testing.T) {
	dst := []byte("key:")
	assert.Equal(t, `key:"v"`, string(AppendString(dst, "v")))
}
