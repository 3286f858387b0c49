package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/x/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorAnsw(t *testing.T) {
	answ := httpx.NewErrorAnsw(http.StatusBadRequest, "invalid phone", errors.New("bad"))
	assert.Equal(t, "INVALID_PHONE", answ.Body.Code)
	assert.Equal(t, http.StatusBadRequest, answ.Body.StatusCode)
	assert.Equal(t, "error INVALID_PHONE: bad", answ.Error())
}

func TestErrorAnsw_WriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	answ := httpx.NotFound(errors.New("contact not found"))
	require.NoError(t, answ.WriteJSON(rec))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"error":{"code":"NOT_FOUND","statusCode":404,"details":"contact not found"}}`,
		rec.Body.String())
}

func TestWriteErrAnswer(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteErrAnswer(context.Background(), rec, errors.New("down"), "mongo")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"MONGO"`)
}

func TestResultAnsw_WriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	answ := httpx.OkResult()
	require.NoError(t, answ.WriteJSON(rec))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":"OK"}`, rec.Body.String())
}
