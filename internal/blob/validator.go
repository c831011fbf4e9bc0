package blob

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxFilenameLength é o tamanho máximo do nome, extensão incluída.
const MaxFilenameLength = 26

// Payload é o arquivo extraído do corpo multipart.
type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validator aplica as regras de nome e extensão antes do upload.
// Com AllowedExtensions vazio, apenas a coincidência de extensões é exigida.
type Validator struct {
	MaxNameLength     int
	AllowedExtensions []string
}

func NewValidator(allowed []string) Validator {
	return Validator{MaxNameLength: MaxFilenameLength, AllowedExtensions: allowed}
}

// Validate não tem efeitos colaterais; devolve *Error ou nil.
func (v Validator) Validate(filename string, file *Payload) error {
	if file == nil {
		return newError(MissingFile, "arquivo obrigatório no campo file")
	}

	limit := v.MaxNameLength
	if limit <= 0 {
		limit = MaxFilenameLength
	}
	if utf8.RuneCountInString(filename) > limit {
		return newError(NameTooLong, fmt.Sprintf("nome do arquivo excede %d caracteres", limit))
	}

	want := filepath.Ext(filename)
	got := filepath.Ext(file.Filename)
	if !strings.EqualFold(want, got) {
		return newError(ExtensionMismatch, fmt.Sprintf("extensão %q não corresponde ao arquivo enviado (%q)", want, got))
	}

	if len(v.AllowedExtensions) > 0 && !v.allowed(want) {
		return newError(ExtensionNotAllowed, fmt.Sprintf("extensão %q não permitida", want))
	}

	return nil
}

func (v Validator) allowed(ext string) bool {
	for _, a := range v.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
