package sky

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// decodeList decodes a list response. The primary shape is the
// {"count": N, "value": [...]} envelope. The parse strategy is chosen
// deterministically from the payload's leading byte: an object is required
// to carry the "value" envelope, a bare array is decoded directly. Anything
// else is reported as malformed rather than guessed at.
func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, eris.New("sky: empty response body")
	}

	switch trimmed[0] {
	case '{':
		var env struct {
			Value *[]T `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, eris.Wrap(err, "sky: malformed list envelope")
		}
		if env.Value == nil {
			return nil, eris.New("sky: list envelope missing value field")
		}
		return *env.Value, nil
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, eris.Wrap(err, "sky: malformed list body")
		}
		return items, nil
	default:
		return nil, eris.Errorf("sky: unexpected list body starting with %q", trimmed[0])
	}
}

func decodeObject[T any](data []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "sky: malformed object body")
	}
	return &out, nil
}
