package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signerJSON(email string) map[string]any {
	return map[string]any{
		"token":         "signer-token",
		"status":        "signed",
		"name":          "Maria da Silva",
		"email":         email,
		"phone_country": "55",
		"phone_number":  "11912345678",
		"times_viewed":  3,
		"signed_at":     "2024-05-01T12:00:00Z",
		"resend_attempts": map[string]any{
			"whatsapp": 0,
			"email":    1,
			"sms":      0,
		},
	}
}

func payloadJSON(t *testing.T, mutate func(map[string]any)) []byte {
	t.Helper()
	payload := map[string]any{
		"event_type":        "doc_signed",
		"status":            "signed",
		"name":              "contrato.pdf",
		"token":             "doc-token",
		"signers":           []any{signerJSON("Maria@Example.com")},
		"answers":           []any{map[string]any{"variable": "Nome completo", "value": "Ana"}},
		"signer_who_signed": signerJSON("Maria@Example.com"),
	}
	if mutate != nil {
		mutate(payload)
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestDecodePayload(t *testing.T) {
	payload, err := DecodePayload(payloadJSON(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "doc_signed", payload.EventType)
	assert.Equal(t, StatusSigned, payload.Status)
	assert.Equal(t, "doc-token", payload.Token)
	require.Len(t, payload.Signers, 1)
	require.Len(t, payload.Answers, 1)
	assert.Equal(t, Answer{Variable: "Nome completo", Value: "Ana"}, payload.Answers[0])

	signer := payload.SignerWhoSigned
	assert.Equal(t, "Maria@Example.com", signer.Email)
	assert.Equal(t, "+5511912345678", signer.Phone())
	assert.Equal(t, 3, signer.TimesViewed)
	require.NotNil(t, signer.SignedAt)
	assert.Equal(t, ResendAttempts{WhatsApp: 0, Email: 1, SMS: 0}, signer.ResendAttempts)
}

func TestDecodePayload_Deterministic(t *testing.T) {
	raw := payloadJSON(t, nil)

	first, err1 := DecodePayload(raw)
	second, err2 := DecodePayload(raw)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestDecodePayload_MissingAnswers(t *testing.T) {
	payload, err := DecodePayload(payloadJSON(t, func(m map[string]any) {
		delete(m, "answers")
	}))
	require.NoError(t, err)
	assert.Empty(t, payload.Answers)
	assert.NotNil(t, payload.Answers)
}

func TestDecodePayload_MissingSignedAt(t *testing.T) {
	payload, err := DecodePayload(payloadJSON(t, func(m map[string]any) {
		delete(m["signer_who_signed"].(map[string]any), "signed_at")
	}))
	require.NoError(t, err)
	assert.Nil(t, payload.SignerWhoSigned.SignedAt)
}

func TestDecodePayload_MissingRequiredField(t *testing.T) {
	_, err := DecodePayload(payloadJSON(t, func(m map[string]any) {
		delete(m["signer_who_signed"].(map[string]any), "phone_number")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signer_who_signed.phone_number")
	assert.Contains(t, err.Error(), "string")
}

func TestDecodePayload_MissingSigners(t *testing.T) {
	_, err := DecodePayload(payloadJSON(t, func(m map[string]any) {
		delete(m, "signers")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signers")
}

func TestDecodePayload_MissingSignerWhoSigned(t *testing.T) {
	_, err := DecodePayload(payloadJSON(t, func(m map[string]any) {
		delete(m, "signer_who_signed")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signer_who_signed")
}

func TestDecodePayload_WrongType(t *testing.T) {
	_, err := DecodePayload(payloadJSON(t, func(m map[string]any) {
		m["signer_who_signed"].(map[string]any)["times_viewed"] = "three"
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "times_viewed")
	assert.Contains(t, err.Error(), "expected")
}

func TestDecodePayload_MalformedJSON(t *testing.T) {
	_, err := DecodePayload([]byte(`{"status":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}
