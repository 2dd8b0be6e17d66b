package sky

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListEnvelope(t *testing.T) {
	got, err := decodeList[Phone]([]byte(`{"count": 1, "value": [{"id": "7", "number": "9876543210"}]}`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "9876543210", got[0].Number)
}

func TestDecodeListBareArray(t *testing.T) {
	got, err := decodeList[Phone]([]byte(` [{"id": "7", "number": "9876543210"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestDecodeListMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "object_without_value", body: `{"count": 0}`, want: "missing value"},
		{name: "empty_body", body: ``, want: "empty response"},
		{name: "scalar", body: `42`, want: "unexpected list body"},
		{name: "broken_json", body: `{"value": [`, want: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeList[Phone]([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFileTokenSource(t *testing.T) {
	path := t.TempDir() + "/token.json"
	writeFile(t, path, `{"access_token": "abc123"}`)

	tok, err := FileTokenSource{Path: path}.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)
}

func TestFileTokenSourceErrors(t *testing.T) {
	_, err := FileTokenSource{Path: "/nonexistent/token.json"}.Token()
	assert.Error(t, err)

	path := t.TempDir() + "/token.json"
	writeFile(t, path, `{}`)
	_, err = FileTokenSource{Path: path}.Token()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access_token")
}
