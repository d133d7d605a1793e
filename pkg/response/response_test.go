package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "adboard/pkg/errors"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSuccessEnvelope(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Success(c, map[string]string{"hello": "world"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.NotEmpty(t, body.Timestamp)
}

func TestErrorMapsAppErrorStatus(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Error(c, apperrors.NotFound("Ad", nil)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "Ad not found", body.Error.Message)
}

func TestErrorFallsBackToInternal(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Error(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestPaginatedTotalPages(t *testing.T) {
	c, rec := newTestContext()

	require.NoError(t, Paginated(c, []int{1, 2, 3}, 45, 2, 20))

	var body struct {
		Data PaginatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(45), body.Data.Total)
	assert.Equal(t, 2, body.Data.Page)
	assert.Equal(t, 3, body.Data.TotalPages)
}
