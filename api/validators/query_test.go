package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dbackf/storefront/pkg/errors"
)

func queryRequest(t *testing.T, rawQuery string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
}

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	value, err := ParseQueryInt(queryRequest(t, "page=4"), "page", 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, value)

	value, err = ParseQueryInt(queryRequest(t, ""), "page", 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	_, err = ParseQueryInt(queryRequest(t, "page=abc"), "page", 1, 1, 100)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = ParseQueryInt(queryRequest(t, "page=101"), "page", 1, 1, 100)
	require.Error(t, err)
}

func TestParseQueryID(t *testing.T) {
	t.Parallel()

	id, err := ParseQueryID(queryRequest(t, "brand=12"), "brand")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(12), *id)

	id, err = ParseQueryID(queryRequest(t, ""), "brand")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = ParseQueryID(queryRequest(t, "brand=0"), "brand")
	require.Error(t, err)

	_, err = ParseQueryID(queryRequest(t, "brand=-3"), "brand")
	require.Error(t, err)
}

func TestParseQueryDecimal(t *testing.T) {
	t.Parallel()

	value, err := ParseQueryDecimal(queryRequest(t, "price_max=99.50"), "price_max")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "99.5", value.String())

	value, err = ParseQueryDecimal(queryRequest(t, ""), "price_max")
	require.NoError(t, err)
	assert.Nil(t, value)

	_, err = ParseQueryDecimal(queryRequest(t, "price_max=-1"), "price_max")
	require.Error(t, err)

	_, err = ParseQueryDecimal(queryRequest(t, "price_max=cheap"), "price_max")
	require.Error(t, err)
}

func TestParseQueryBool(t *testing.T) {
	t.Parallel()

	value, err := ParseQueryBool(queryRequest(t, "favorites=true"), "favorites")
	require.NoError(t, err)
	assert.True(t, value)

	value, err = ParseQueryBool(queryRequest(t, ""), "favorites")
	require.NoError(t, err)
	assert.False(t, value)

	_, err = ParseQueryBool(queryRequest(t, "favorites=si"), "favorites")
	require.Error(t, err)
}
