package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeMessage_Returning(t *testing.T) {
	message := ComposeMessage(true, "Maria", "maria@example.com", nil)

	assert.Contains(t, message, "Olá Maria")
	assert.Contains(t, message, "continuar seus estudos")
	assert.NotContains(t, message, "maria@example.com")
}

func TestComposeMessage_New(t *testing.T) {
	answers := []Answer{{Variable: "Nome completo", Value: "Ana"}}
	message := ComposeMessage(false, "Maria", "maria@example.com", answers)

	assert.Contains(t, message, "Welcome Maria!")
	assert.Contains(t, message, "decisão para Ana!")
	assert.Contains(t, message, "maria@example.com")
	assert.Contains(t, message, "Karol Elói Language Learning")
}

func TestComposeMessage_FallbackDependent(t *testing.T) {
	message := ComposeMessage(false, "Maria", "maria@example.com", nil)
	assert.Contains(t, message, "decisão para sua filha!")

	message = ComposeMessage(false, "Maria", "maria@example.com", []Answer{
		{Variable: "outra pergunta", Value: "42"},
	})
	assert.Contains(t, message, "decisão para sua filha!")
}

func TestComposeMessage_AnswerKeyCaseInsensitive(t *testing.T) {
	for _, variable := range []string{"nome completo", "Nome Completo", "NOME COMPLETO"} {
		message := ComposeMessage(false, "Maria", "maria@example.com", []Answer{
			{Variable: variable, Value: "Ana"},
		})
		assert.Contains(t, message, "decisão para Ana!", "variable %q", variable)
	}
}

func TestComposeMessage_DuplicateAnswerLastWins(t *testing.T) {
	message := ComposeMessage(false, "Maria", "maria@example.com", []Answer{
		{Variable: "Nome completo", Value: "Ana"},
		{Variable: "nome completo", Value: "Bia"},
	})
	assert.Contains(t, message, "decisão para Bia!")
}

func TestComposeMessage_Deterministic(t *testing.T) {
	answers := []Answer{{Variable: "Nome completo", Value: "Ana"}}

	first := ComposeMessage(false, "Maria", "maria@example.com", answers)
	second := ComposeMessage(false, "Maria", "maria@example.com", answers)
	assert.Equal(t, first, second)

	first = ComposeMessage(true, "Maria", "maria@example.com", answers)
	second = ComposeMessage(true, "Maria", "maria@example.com", answers)
	assert.Equal(t, first, second)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Maria", firstName("Maria da Silva"))
	assert.Equal(t, "Maria", firstName("  Maria  "))
	assert.Equal(t, "Maria", firstName("Maria"))
	assert.Equal(t, "", firstName(""))
	assert.Equal(t, "", firstName("   "))
}
