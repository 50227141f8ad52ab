package server

import (
	"context"
	"fmt"
)

// classifyReturning reports whether the signer already has a student record.
// The email lookup is authoritative and short-circuits; the given-name
// substring lookup is a fallback heuristic for records without an email yet
// and may produce false positives on common given names. That trade-off is
// deliberate.
func (s *Server) classifyReturning(ctx context.Context, email string, fullName string) (bool, error) {
	found, err := s.directory.ContainsEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("email lookup failed: %w", err)
	}
	if found {
		return true, nil
	}

	given := firstName(fullName)
	if given == "" {
		return false, nil
	}
	found, err = s.directory.ContainsGivenName(ctx, given)
	if err != nil {
		return false, fmt.Errorf("name lookup failed: %w", err)
	}
	return found, nil
}
