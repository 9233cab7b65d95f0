package errors

import (
	"github.com/goccy/go-json"
)

// BusinessErr is violation of business rule related to particular field
type BusinessErr struct {
	target  string
	message string
}

func (e *BusinessErr) Error() string {
	return e.message
}

// Target is name of the field which violates rule
func (e *BusinessErr) Target() string {
	return e.target
}

// MarshalJSON implements json.Marshaler
func (e *BusinessErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Target  string `json:"target"`
		Message string `json:"message"`
	}{Target: e.target, Message: e.message})
}

// NewBusinessErr builds BusinessErr
func NewBusinessErr(target string, msg string) error {
	return &BusinessErr{
		target:  target,
		message: msg,
	}
}
