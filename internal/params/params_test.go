package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyspots/internal/apperr"
)

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Skip: 0, Limit: DefaultLimit}, p)

	p, err = ParsePagination(url.Values{"skip": {"20"}, "limit": {"500"}})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Skip: 20, Limit: MaxLimit}, p)

	for _, q := range []url.Values{
		{"limit": {"0"}},
		{"limit": {"ten"}},
		{"skip": {"-1"}},
	} {
		_, err := ParsePagination(q)
		assert.True(t, apperr.IsValidation(err), "%v", q)
	}
}

func TestFloatAndList(t *testing.T) {
	q := url.Values{
		"lat":       {"40.7"},
		"bad":       {"north"},
		"amenities": {"wifi, outlets", "", "quiet"},
	}

	f, err := Float(q, "lat")
	require.NoError(t, err)
	assert.Equal(t, 40.7, *f)

	f, err = Float(q, "missing")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = RequiredFloat(q, "missing")
	assert.True(t, apperr.IsValidation(err))
	_, err = Float(q, "bad")
	assert.True(t, apperr.IsValidation(err))

	assert.Equal(t, []string{"wifi", "outlets", "quiet"}, List(q, "amenities"))
	assert.Nil(t, List(q, "missing"))
}
