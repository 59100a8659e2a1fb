package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/objectives/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("registering notblank validator: %v", err))
	}
}

// fieldNames maps struct fields to the names used on every outward surface.
var fieldNames = map[string]string{
	"Title":     domain.FieldTitle,
	"StartDate": domain.FieldStartDate,
	"EndDate":   domain.FieldEndDate,
	"Status":    domain.FieldStatus,
	"ParentID":  domain.FieldParentID,
}

func validateInput(in domain.ObjectiveInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "gt":
			problems = append(problems, name+" must be a positive id")
		default:
			problems = append(problems, name+" is required")
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
}

func validateStatus(status *string) error {
	if status == nil || strings.TrimSpace(*status) == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidInput)
	}
	return nil
}
