package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soldatov-s/go-contacts/x/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingRemoteService(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		answ := httpx.ResultAnsw{Body: "ok"}
		if err := answ.WriteJSON(w); err != nil {
			t.Fatal(err)
		}
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	healthStatus, err := PingRemoteService(context.Background(), server.URL)

	require.Nil(t, err)
	require.NotNil(t, healthStatus)
	assert.Equal(t, "ok", healthStatus.Status)
}

func TestPingRemoteServiceEmptyAnswer(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	healthStatus, err := PingRemoteService(context.Background(), server.URL)

	require.Nil(t, err)
	require.NotNil(t, healthStatus)
	assert.Equal(t, "ok", healthStatus.Status)
}

func TestPingRemoteServiceFailedCheck(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteErrAnswer(r.Context(), w, errors.New("connection refused"), "mongo contacts")
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	healthStatus, err := PingRemoteService(context.Background(), server.URL)

	require.Nil(t, healthStatus)
	var answ httpx.ErrorAnsw
	require.True(t, errors.As(err, &answ))
	assert.Equal(t, "MONGO_CONTACTS", answ.Body.Code)
	assert.Equal(t, http.StatusServiceUnavailable, answ.Body.StatusCode)
	assert.Equal(t, "connection refused", answ.Body.Details)
}

func TestPingRemoteServiceUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := PingRemoteService(context.Background(), server.URL)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestPingRemoteServiceNotExistServer(t *testing.T) {
	healthStatus, err := PingRemoteService(context.Background(), "http://localhost:9999")

	require.NotNil(t, err)
	require.Nil(t, healthStatus)
}
