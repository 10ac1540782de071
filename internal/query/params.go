// Package query turns list request parameters into caller-scoped task
// queries.
package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var ErrInvalidParams = errors.New("invalid query parameters")

// Params are the raw list parameters. Filter and Sort hold JSON objects,
// or nil when absent or unparseable.
type Params struct {
	Page     int
	PageSize int
	Search   string
	Filter   json.RawMessage
	Sort     json.RawMessage
}

// ParseParams merges the query string with the decoded JSON body, the body
// taking precedence. filter and sort may be given either as objects or as
// JSON-encoded strings.
func ParseParams(values url.Values, body map[string]json.RawMessage) Params {
	get := func(key string) json.RawMessage {
		if raw, ok := body[key]; ok && !isNull(raw) {
			return raw
		}
		if v := values.Get(key); v != "" {
			raw, _ := json.Marshal(v)
			return raw
		}
		return nil
	}

	return Params{
		Page:     atLeastOne(intValue(get("page")), DefaultPage),
		PageSize: min(atLeastOne(intValue(get("pageSize")), DefaultPageSize), MaxPageSize),
		Search:   strings.TrimSpace(stringValue(get("search"))),
		Filter:   objectValue(get("filter")),
		Sort:     objectValue(get("sort")),
	}
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func atLeastOne(n, def int) int {
	if n < 1 {
		return def
	}
	return n
}

func intValue(raw json.RawMessage) int {
	if raw == nil {
		return 0
	}

	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return clampInt(f)
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return clampInt(f)
		}
	}
	return 0
}

func clampInt(f float64) int {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

func stringValue(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func objectValue(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		raw = json.RawMessage(s)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		return nil
	}
	return raw
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
}
