package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

// WebhookPayload is the decoded ZapSign document event. Everything here is
// request-scoped; nothing is persisted.
type WebhookPayload struct {
	EventType       string
	Status          string
	Name            string
	Token           string
	Signers         []Signer
	Answers         []Answer
	SignerWhoSigned Signer
}

const StatusSigned = "signed"

type Signer struct {
	Token          string
	Status         string
	Name           string
	Email          string
	PhoneCountry   string
	PhoneNumber    string
	TimesViewed    int
	SignedAt       *string
	ResendAttempts ResendAttempts
}

// Phone returns the dialable number in "+<country><number>" form.
func (s Signer) Phone() string {
	return "+" + s.PhoneCountry + s.PhoneNumber
}

type ResendAttempts struct {
	WhatsApp int
	Email    int
	SMS      int
}

type Answer struct {
	Variable string
	Value    string
}

type rawPayload struct {
	EventType       *string     `json:"event_type"`
	Status          *string     `json:"status"`
	Name            *string     `json:"name"`
	Token           *string     `json:"token"`
	Signers         []rawSigner `json:"signers"`
	Answers         []rawAnswer `json:"answers"`
	SignerWhoSigned *rawSigner  `json:"signer_who_signed"`
}

type rawSigner struct {
	Token          *string            `json:"token"`
	Status         *string            `json:"status"`
	Name           *string            `json:"name"`
	Email          *string            `json:"email"`
	PhoneCountry   *string            `json:"phone_country"`
	PhoneNumber    *string            `json:"phone_number"`
	TimesViewed    *int               `json:"times_viewed"`
	SignedAt       *string            `json:"signed_at"`
	ResendAttempts *rawResendAttempts `json:"resend_attempts"`
}

type rawResendAttempts struct {
	WhatsApp *int `json:"whatsapp"`
	Email    *int `json:"email"`
	SMS      *int `json:"sms"`
}

type rawAnswer struct {
	Variable *string `json:"variable"`
	Value    *string `json:"value"`
}

// DecodePayload parses and structurally validates a raw webhook body.
// Validation is purely structural: required fields must be present with the
// right primitive type, answers defaults to an empty sequence and signed_at
// to absent. Semantic checks (email shape, phone shape) do not happen here.
func DecodePayload(body []byte) (WebhookPayload, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "(root)"
			}
			return WebhookPayload{}, fmt.Errorf("field %q: expected %s", field, typeErr.Type)
		}
		return WebhookPayload{}, fmt.Errorf("malformed JSON: %w", err)
	}

	var errs []error
	requireString := func(v *string, path string) string {
		if v == nil {
			errs = append(errs, fmt.Errorf("missing required field %q (string)", path))
			return ""
		}
		return *v
	}
	requireInt := func(v *int, path string) int {
		if v == nil {
			errs = append(errs, fmt.Errorf("missing required field %q (integer)", path))
			return 0
		}
		return *v
	}
	convertSigner := func(raw rawSigner, path string) Signer {
		signer := Signer{
			Token:        requireString(raw.Token, path+".token"),
			Status:       requireString(raw.Status, path+".status"),
			Name:         requireString(raw.Name, path+".name"),
			Email:        requireString(raw.Email, path+".email"),
			PhoneCountry: requireString(raw.PhoneCountry, path+".phone_country"),
			PhoneNumber:  requireString(raw.PhoneNumber, path+".phone_number"),
			TimesViewed:  requireInt(raw.TimesViewed, path+".times_viewed"),
			SignedAt:     raw.SignedAt,
		}
		if raw.ResendAttempts == nil {
			errs = append(errs, fmt.Errorf("missing required field %q (object)", path+".resend_attempts"))
		} else {
			signer.ResendAttempts = ResendAttempts{
				WhatsApp: requireInt(raw.ResendAttempts.WhatsApp, path+".resend_attempts.whatsapp"),
				Email:    requireInt(raw.ResendAttempts.Email, path+".resend_attempts.email"),
				SMS:      requireInt(raw.ResendAttempts.SMS, path+".resend_attempts.sms"),
			}
		}
		return signer
	}

	payload := WebhookPayload{
		EventType: requireString(raw.EventType, "event_type"),
		Status:    requireString(raw.Status, "status"),
		Name:      requireString(raw.Name, "name"),
		Token:     requireString(raw.Token, "token"),
		Answers:   make([]Answer, 0, len(raw.Answers)),
	}

	if raw.Signers == nil {
		errs = append(errs, errors.New(`missing required field "signers" (array)`))
	}
	for i, signer := range raw.Signers {
		payload.Signers = append(payload.Signers, convertSigner(signer, fmt.Sprintf("signers[%d]", i)))
	}

	for i, answer := range raw.Answers {
		payload.Answers = append(payload.Answers, Answer{
			Variable: requireString(answer.Variable, fmt.Sprintf("answers[%d].variable", i)),
			Value:    requireString(answer.Value, fmt.Sprintf("answers[%d].value", i)),
		})
	}

	// signer_who_signed must be structurally valid even when the document
	// status gates further processing.
	if raw.SignerWhoSigned == nil {
		errs = append(errs, errors.New(`missing required field "signer_who_signed" (object)`))
	} else {
		payload.SignerWhoSigned = convertSigner(*raw.SignerWhoSigned, "signer_who_signed")
	}

	if len(errs) > 0 {
		return WebhookPayload{}, errors.Join(errs...)
	}
	return payload, nil
}
