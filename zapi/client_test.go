package zapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5511912345678", NormalizePhone("+55 (11) 91234-5678"))
	assert.Equal(t, "5511912345678", NormalizePhone("5511912345678"))
	assert.Equal(t, "", NormalizePhone("+ () -"))
}

func TestSendText(t *testing.T) {
	var (
		path string
		body map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := New(Config{
		InstanceID: "instance",
		Token:      "token",
		BaseURL:    srv.URL,
	}, srv.Client())

	err := client.SendText(context.Background(), "+55 (11) 91234-5678", "Olá!")
	require.NoError(t, err)

	assert.Equal(t, "/instances/instance/token/token/send-message", path)
	assert.Equal(t, map[string]string{
		"phone":   "5511912345678",
		"message": "Olá!",
	}, body)
}

func TestSendText_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := New(Config{InstanceID: "instance", Token: "token", BaseURL: srv.URL}, srv.Client())

	err := client.SendText(context.Background(), "5511912345678", "Olá!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
