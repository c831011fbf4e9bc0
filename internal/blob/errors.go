package blob

import (
	"fmt"
	"net/http"
)

// ErrorKind classifica falhas de upload/download.
type ErrorKind int

const (
	MissingFile ErrorKind = iota + 1
	NameTooLong
	ExtensionMismatch
	ExtensionNotAllowed
	MalformedBody
	PayloadTooLarge
	StoreIOFailure
	NotConfigured
)

func (k ErrorKind) String() string {
	switch k {
	case MissingFile:
		return "missing_file"
	case NameTooLong:
		return "name_too_long"
	case ExtensionMismatch:
		return "extension_mismatch"
	case ExtensionNotAllowed:
		return "extension_not_allowed"
	case MalformedBody:
		return "malformed_body"
	case PayloadTooLarge:
		return "payload_too_large"
	case StoreIOFailure:
		return "store_io_failure"
	case NotConfigured:
		return "not_configured"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status devolve o código HTTP associado ao tipo de falha.
// Arquivo ausente responde 500, contrato herdado dos clientes existentes.
func (k ErrorKind) Status() int {
	switch k {
	case NameTooLong, ExtensionMismatch, ExtensionNotAllowed, MalformedBody:
		return http.StatusBadRequest
	case PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case NotConfigured:
		return http.StatusServiceUnavailable
	case MissingFile, StoreIOFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error é o resultado estruturado de uma falha, convertido direto em resposta HTTP.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status devolve o código HTTP da falha.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// ErrorBody é o corpo JSON das respostas de erro.
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Body converte a falha no corpo {status, message}.
func (e *Error) Body() ErrorBody {
	return ErrorBody{Status: e.Status(), Message: e.Message}
}
