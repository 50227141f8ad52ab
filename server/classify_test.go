package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelanguage/enrollhook/internal/ver"
)

type fakeDirectory struct {
	emailResult bool
	emailErr    error
	nameResult  bool
	nameErr     error

	emailCalls []string
	nameCalls  []string
}

func (d *fakeDirectory) ContainsEmail(_ context.Context, email string) (bool, error) {
	d.emailCalls = append(d.emailCalls, email)
	return d.emailResult, d.emailErr
}

func (d *fakeDirectory) ContainsGivenName(_ context.Context, givenName string) (bool, error) {
	d.nameCalls = append(d.nameCalls, givenName)
	return d.nameResult, d.nameErr
}

type sentMessage struct {
	phone   string
	message string
}

type fakeMessenger struct {
	err   error
	sends []sentMessage
}

func (m *fakeMessenger) SendText(_ context.Context, phone string, message string) error {
	m.sends = append(m.sends, sentMessage{phone: phone, message: message})
	return m.err
}

func newTestServer(cfg Config, directory StudentDirectory, messenger Messenger) *Server {
	return NewServer(ver.Version{Version: "test"}, cfg, directory, messenger)
}

func TestClassifyReturning_EmailShortCircuits(t *testing.T) {
	directory := &fakeDirectory{emailResult: true, nameResult: true}
	s := newTestServer(Config{}, directory, &fakeMessenger{})

	returning, err := s.classifyReturning(context.Background(), "maria@example.com", "Maria da Silva")
	require.NoError(t, err)
	assert.True(t, returning)
	assert.Equal(t, []string{"maria@example.com"}, directory.emailCalls)
	assert.Empty(t, directory.nameCalls, "name lookup must not run when the email matched")
}

func TestClassifyReturning_NameFallback(t *testing.T) {
	directory := &fakeDirectory{nameResult: true}
	s := newTestServer(Config{}, directory, &fakeMessenger{})

	returning, err := s.classifyReturning(context.Background(), "maria@example.com", "Maria da Silva")
	require.NoError(t, err)
	assert.True(t, returning)
	assert.Equal(t, []string{"Maria"}, directory.nameCalls)
}

func TestClassifyReturning_NotFound(t *testing.T) {
	directory := &fakeDirectory{}
	s := newTestServer(Config{}, directory, &fakeMessenger{})

	returning, err := s.classifyReturning(context.Background(), "maria@example.com", "Maria da Silva")
	require.NoError(t, err)
	assert.False(t, returning)
	assert.Len(t, directory.emailCalls, 1)
	assert.Len(t, directory.nameCalls, 1)
}

func TestClassifyReturning_EmptyNameSkipsFallback(t *testing.T) {
	directory := &fakeDirectory{nameResult: true}
	s := newTestServer(Config{}, directory, &fakeMessenger{})

	returning, err := s.classifyReturning(context.Background(), "maria@example.com", "  ")
	require.NoError(t, err)
	assert.False(t, returning)
	assert.Empty(t, directory.nameCalls)
}

func TestClassifyReturning_Errors(t *testing.T) {
	lookupErr := errors.New("boom")

	directory := &fakeDirectory{emailErr: lookupErr}
	s := newTestServer(Config{}, directory, &fakeMessenger{})
	_, err := s.classifyReturning(context.Background(), "maria@example.com", "Maria")
	require.ErrorIs(t, err, lookupErr)
	assert.Empty(t, directory.nameCalls)

	directory = &fakeDirectory{nameErr: lookupErr}
	s = newTestServer(Config{}, directory, &fakeMessenger{})
	_, err = s.classifyReturning(context.Background(), "maria@example.com", "Maria")
	require.ErrorIs(t, err, lookupErr)
}
