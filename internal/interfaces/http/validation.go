package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct devuelve un mensaje legible con el primer campo inválido de cada regla.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s elemento(s)", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual que %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s supera la longitud máxima %s", field, fe.Param())
	case "datetime":
		return field + " debe tener formato YYYY-MM-DD"
	default:
		return fmt.Sprintf("%s no cumple %s", field, fe.Tag())
	}
}
