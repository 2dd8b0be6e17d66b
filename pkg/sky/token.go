package sky

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// TokenSource supplies the current OAuth bearer token for each request.
type TokenSource interface {
	Token() (string, error)
}

// FileTokenSource reads the access token from a JSON file maintained by the
// external token-refresh job. The file is re-read on every call so a rotated
// token is picked up without restarting the run.
type FileTokenSource struct {
	Path string
}

// Token returns the current access token from the file.
func (f FileTokenSource) Token() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", eris.Wrapf(err, "sky: read token file %s", f.Path)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", eris.Wrapf(err, "sky: parse token file %s", f.Path)
	}
	if payload.AccessToken == "" {
		return "", eris.Errorf("sky: token file %s has no access_token", f.Path)
	}
	return payload.AccessToken, nil
}

// StaticTokenSource returns a fixed token, for tests and short-lived runs.
type StaticTokenSource string

// Token returns the static token.
func (s StaticTokenSource) Token() (string, error) {
	return string(s), nil
}
