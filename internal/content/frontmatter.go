package content

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates a document opened a front matter block
// with `---` but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// SplitFrontMatter separates a leading `---` delimited YAML block from the body.
// When the document has no front matter, fm is nil and body is the whole input.
func SplitFrontMatter(raw []byte) (fm []byte, body []byte, err error) {
	nl := "\n"
	if i := bytes.IndexByte(raw, '\n'); i > 0 && raw[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(raw, open) {
		return nil, raw, nil
	}

	rest := raw[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			return rest[:len(rest)-len("---")], []byte{}, nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], nil
}

// ParseFrontMatter decodes raw YAML front matter into a map. An empty block
// yields an empty, non-nil map. Values are normalized so the result always
// encodes as JSON: map keys become strings and non-finite floats become
// their string spelling.
func ParseFrontMatter(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return map[string]any{}, nil
	}
	for k, v := range fields {
		fields[k] = jsonSafe(v)
	}
	return fields, nil
}

func jsonSafe(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonSafe(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = jsonSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonSafe(e)
		}
		return out
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
	}
	return v
}

// volatileFields never contribute to a fingerprint.
var volatileFields = []string{mdfp.FingerprintField, "lastmod", "uid", "aliases"}

// Fingerprint computes a stable content hash over the front matter (minus
// volatile fields) and the body. yaml.v3 sorts map keys, which keeps the
// serialized form deterministic.
func Fingerprint(data map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(data))
	for k, v := range data {
		hashed[k] = v
	}
	for _, k := range volatileFields {
		delete(hashed, k)
	}

	fm := ""
	if len(hashed) > 0 {
		out, err := yaml.Marshal(hashed)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(out), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
