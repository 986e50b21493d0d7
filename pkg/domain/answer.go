package domain

import "fmt"

// Answer is the closed set of labels a question transition can carry.
type Answer string

const (
	AnswerYes Answer = "yes"
	AnswerNo  Answer = "no"
)

// Answers lists the valid answers in a stable order.
var Answers = []Answer{AnswerYes, AnswerNo}

// Valid reports whether a is one of the known answers.
func (a Answer) Valid() bool {
	return a == AnswerYes || a == AnswerNo
}

// ParseAnswer converts raw user input into an Answer.
// Anything other than "yes" or "no" fails with ErrInvalidAnswer; there is no default.
func ParseAnswer(s string) (Answer, error) {
	a := Answer(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidAnswer, s, AnswerYes, AnswerNo)
	}
	return a, nil
}
