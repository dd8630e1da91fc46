// Package validator valida los DTOs de entrada con las etiquetas `validate` de go-playground.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Los mensajes usan el nombre JSON del campo, que es el que ve el cliente.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate valida s según sus etiquetas.
func Validate(s any) error {
	return validate.Struct(s)
}

// Details convierte un error de Validate en mensajes legibles, uno por campo, ordenados por campo.
// Devuelve nil si err no es de validación.
func Details(err error) []string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]string, 0, len(ve))
	for _, e := range ve {
		out = append(out, fmt.Sprintf("%s: %s", fieldPath(e), message(e)))
	}
	sort.Strings(out)
	return out
}

// fieldPath quita el nombre del struct raíz: "SaveOrderRequest.customer_id" → "customer_id".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es obligatorio"
	case "uuid", "uuid4":
		return "debe ser un UUID válido"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("longitud mínima %s", e.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("longitud máxima %s", e.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", e.Param())
	case "email":
		return "debe ser un email válido"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", e.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", e.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", e.Param())
	default:
		return fmt.Sprintf("no cumple la regla '%s'", e.Tag())
	}
}
