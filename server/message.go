package server

import (
	"fmt"
	"strings"
)

// answerFullName is the only form field the composer consults. Matching is
// case-insensitive; the last duplicate wins.
const answerFullName = "nome completo"

// fallbackDependent is used when the form carries no dependent name.
const fallbackDependent = "sua filha"

const returningTemplate = "Olá %s, parabéns pela escolha de continuar seus estudos. " +
	"Tenho certeza de que a continuação dessa jornada será incrível. " +
	"Já sabe, não é? Se precisar de algo, pode contar com a gente! Rumo à fluência!"

const welcomeTemplate = "Welcome %s! 🎉 Parabéns pela excelente decisão para %s! " +
	"Tenho certeza de que será uma experiência incrível para vocês!\n\n" +
	"Sou Marcello, seu ponto de contato para tudo o que precisar da Escola Karol Elói Language Learning. " +
	"Estou aqui para garantir que sua filha tenha uma jornada fluida, produtiva e cheia de progresso.\n\n" +
	"Vi que o e‑mail cadastrado é %s. Você deseja usá-lo para tudo ou prefere trocar? " +
	"Lembrando que será somente um e‑mail para todas as plataformas."

// ComposeMessage renders the outbound text. Returning students get a short
// congratulatory note; new students get the full welcome with the dependent
// name from the form answers and the registered e-mail to confirm.
func ComposeMessage(returning bool, firstName string, email string, answers []Answer) string {
	if returning {
		return fmt.Sprintf(returningTemplate, firstName)
	}

	dependent := fallbackDependent
	if value, ok := answerValue(answers, answerFullName); ok {
		dependent = value
	}
	return fmt.Sprintf(welcomeTemplate, firstName, dependent, email)
}

func answerValue(answers []Answer, variable string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, answer := range answers {
		if strings.ToLower(answer.Variable) == variable {
			value = answer.Value
			found = true
		}
	}
	return value, found
}

// firstName returns the first whitespace-delimited token of a full name, or
// "" when the name has none.
func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
