package params

import (
	"net/url"
	"strconv"
	"strings"

	"studyspots/internal/apperr"
)

const (
	DefaultLimit = 15
	MaxLimit     = 100
)

// URL: /users?skip=20&limit=10
// → ParsePagination() → Pagination{Skip:20, Limit:10}
// → SQL: ... LIMIT 10 OFFSET 20
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// ParsePagination reads ?skip= and ?limit=. Missing values take the defaults;
// malformed or out of range values are a ValidationError. Limits above
// MaxLimit are capped.
func ParsePagination(q url.Values) (Pagination, error) {
	p := Pagination{Limit: DefaultLimit}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return p, apperr.Invalid("limit", "must be a positive integer")
		}
		p.Limit = min(limit, MaxLimit)
	}

	if raw := strings.TrimSpace(q.Get("skip")); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return p, apperr.Invalid("skip", "must be a non-negative integer")
		}
		p.Skip = skip
	}
	return p, nil
}

// Float parses an optional float parameter; nil when absent.
func Float(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Invalid(key, "must be a number")
	}
	return &f, nil
}

// RequiredFloat is Float for parameters that must be present.
func RequiredFloat(q url.Values, key string) (float64, error) {
	f, err := Float(q, key)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, apperr.Invalid(key, "is required")
	}
	return *f, nil
}

// List collects a multi-valued parameter. Both ?a=x&a=y and ?a=x,y are
// accepted; blanks are dropped.
func List(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
