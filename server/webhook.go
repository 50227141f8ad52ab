package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kelanguage/enrollhook/internal/httperr"
)

// PostZapSignWebhook handles a ZapSign document event: verify the delivery,
// validate the payload, classify the signer against the student directory
// and send the matching WhatsApp text. Every step failure aborts the rest of
// the pipeline; there are no retries within a delivery.
func (s *Server) PostZapSignWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.error(w, r, httperr.BadRequest(fmt.Errorf("failed to read body: %w", err)))
		return
	}

	if !VerifySignature(s.cfg.ZapSign.HMACSecret, body, r.Header.Get(SignatureHeader)) {
		s.error(w, r, httperr.Unauthorized(ErrInvalidSignature))
		return
	}

	payload, err := DecodePayload(body)
	if err != nil {
		s.error(w, r, httperr.BadRequest(fmt.Errorf("bad payload: %w", err)))
		return
	}

	slog.DebugContext(r.Context(), "received document event",
		slog.String("event_type", payload.EventType),
		slog.String("document", payload.Name),
		slog.String("status", payload.Status),
	)

	// Deliveries for documents still missing signatures are acknowledged
	// without further action.
	if payload.Status != StatusSigned {
		s.ok(w, r, nil)
		return
	}

	signer := payload.SignerWhoSigned
	fullName := strings.TrimSpace(signer.Name)
	email := strings.ToLower(signer.Email)

	returning, err := s.classifyReturning(r.Context(), email, fullName)
	if err != nil {
		s.error(w, r, httperr.BadGateway(fmt.Errorf("failed to classify student: %w", err)))
		return
	}

	message := ComposeMessage(returning, firstName(fullName), email, payload.Answers)

	if err = s.messenger.SendText(r.Context(), signer.Phone(), message); err != nil {
		s.error(w, r, httperr.BadGateway(fmt.Errorf("failed to send message: %w", err)))
		return
	}

	slog.InfoContext(r.Context(), "notified signer",
		slog.String("document", payload.Token),
		slog.Bool("returning", returning),
	)
	s.ok(w, r, nil)
}
