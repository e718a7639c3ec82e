package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Limits follow the column sizes of the clients table.
type candidate struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"omitempty,max=120"`
	Phone string `validate:"omitempty,max=20"`
}

var fieldLabels = map[string]string{
	"Name":  FieldName,
	"Email": FieldEmail,
	"Phone": FieldPhone,
}

func validateCandidate(c candidate) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldLabels[fe.Field()]
		switch fe.Tag() {
		case "required":
			out[key] = fmt.Sprintf("%s is required.", fe.Field())
		case "max":
			out[key] = fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
		default:
			out[key] = fmt.Sprintf("%s is invalid.", fe.Field())
		}
	}
	return &ValidationError{Fields: out}
}
