// Package settings tests settings document encoding.
// Related: internal/settings/settings.go, internal/settings/encode.go
// Tags: settings, json, encoding

package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Marshal(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"empty object": {
			input: `{}`,
			want:  "{}\n",
		},
		"member order is kept": {
			input: `{"z":1,"a":{"y":true,"b":null}}`,
			want:  "{\n  \"z\": 1,\n  \"a\": {\n    \"y\": true,\n    \"b\": null\n  }\n}\n",
		},
		"nested arrays of objects": {
			input: `{"hooks":{"PreToolUse":[{"matcher":"Bash","hooks":[{"type":"command","command":"a && b"}]}]},"e":[],"o":{}}`,
			want: "{\n  \"hooks\": {\n    \"PreToolUse\": [\n      {\n        \"matcher\": \"Bash\",\n" +
				"        \"hooks\": [\n          {\n            \"type\": \"command\",\n            \"command\": \"a && b\"\n" +
				"          }\n        ]\n      }\n    ]\n  },\n  \"e\": [],\n  \"o\": {}\n}\n",
		},
		"html characters are not escaped": {
			input: `{"allow":["Bash(a && b:*)","Bash(x > y)","Bash(<in)"]}`,
			want:  "{\n  \"allow\": [\n    \"Bash(a && b:*)\",\n    \"Bash(x > y)\",\n    \"Bash(<in)\"\n  ]\n}\n",
		},
		"escapes required by json are kept": {
			input: `{"s":"quote \" tab \t","n":12345678901234567890}`,
			want:  "{\n  \"s\": \"quote \\\" tab \\t\",\n  \"n\": 12345678901234567890\n}\n",
		},
		"keys with slashes": {
			input: `{"a/b":{"y":1,"x":2},"a":{"b":{"x":3,"y":4}}}`,
			want: "{\n  \"a/b\": {\n    \"y\": 1,\n    \"x\": 2\n  },\n" +
				"  \"a\": {\n    \"b\": {\n      \"x\": 3,\n      \"y\": 4\n    }\n  }\n}\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse([]byte(tt.input), "test.json")
			require.NoError(t, err)
			got, err := doc.Marshal()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDocument_MarshalAppendsNewKeysSorted(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(`{"permissions":{"deny":[]}}`), "test.json")
	require.NoError(t, err)

	perms, ok := doc.permissions()
	require.True(t, ok)
	perms["ask"] = []interface{}{}
	perms["allow"] = []interface{}{"a"}

	got, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"permissions\": {\n    \"deny\": [],\n    \"allow\": [\n      \"a\"\n    ],\n    \"ask\": []\n  }\n}\n", string(got))
}
