package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/Donaciones-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct aplica las etiquetas `validate` del DTO y traduce las fallas a domain.ErrInvalidInput.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
