package dogs

import "errors"

// Kind clasifica los errores que ve el usuario.
type Kind string

const (
	KindRequest    Kind = "request"
	KindValidation Kind = "validation"
)

// UnexpectedMessage se muestra para cualquier error que no sea *Error.
const UnexpectedMessage = "An unexpected error occurred"

// Error es el error "tagged" del dominio: Kind + mensaje legible.
// El mensaje es genérico por endpoint, nunca el body de la respuesta.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// RequestError: respuesta no-2xx o falla de transporte.
func RequestError(msg string, cause error) *Error {
	return &Error{Kind: KindRequest, Message: msg, Err: cause}
}

// ValidationError: precondición violada del lado cliente; no hubo request.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func IsRequest(err error) bool { return hasKind(err, KindRequest) }

func IsValidation(err error) bool { return hasKind(err, KindValidation) }

// Message convierte cualquier error en el único mensaje que se muestra.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return UnexpectedMessage
}

func hasKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
