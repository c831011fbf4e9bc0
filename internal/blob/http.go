package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/arquivos/internal/storage"
)

const (
	fileField = "file"
	// acima disso o multipart é despejado em arquivos temporários
	maxFormMemory = 32 << 20
)

// Handler orquestra upload e download de blobs.
type Handler struct {
	store         storage.Client
	validator     Validator
	maxUploadSize int64
}

func NewHandler(store storage.Client, validator Validator, maxUploadSize int64) *Handler {
	if store == nil {
		store = storage.Noop{}
	}
	return &Handler{store: store, validator: validator, maxUploadSize: maxUploadSize}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(chimiddleware.AllowContentType("multipart/form-data")).
		Post("/upload/{filename}", h.handleUpload)
	r.Get("/download/{filename}", h.handleDownload)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	filename, err := filenameParam(r)
	if err != nil {
		writeFailure(ctx, w, chi.URLParam(r, "filename"), err)
		return
	}

	file, err := h.extractFile(w, r)
	if err == nil {
		err = h.validator.Validate(filename, file)
	}
	if err == nil {
		if uerr := storage.NewResource(h.store, filename).Upload(ctx, file.Data); uerr != nil {
			err = storeFailure(uerr)
		}
	}
	if err != nil {
		writeFailure(ctx, w, filename, err)
		return
	}

	logRequest(ctx, "upload", filename, len(file.Data), start)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	filename, err := filenameParam(r)
	if err != nil {
		writeFailure(ctx, w, chi.URLParam(r, "filename"), err)
		return
	}
	res := storage.NewResource(h.store, filename)

	ok, err := res.Exists(ctx)
	if err != nil {
		writeFailure(ctx, w, filename, storeFailure(err))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	data, err := res.ReadAll(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		// removido entre a verificação e a leitura
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		writeFailure(ctx, w, filename, storeFailure(err))
		return
	}

	logRequest(ctx, "download", filename, len(data), start)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// filenameParam devolve o nome decodificado. O chi roteia sobre RawPath quando
// presente, então o parâmetro pode chegar com escapes.
func filenameParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "filename")
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", &Error{Kind: MalformedBody, Message: fmt.Sprintf("nome do arquivo inválido: %q", raw), Err: err}
	}
	return name, nil
}

// extractFile lê o campo file do corpo multipart. Falhas viram *Error.
func (h *Handler) extractFile(w http.ResponseWriter, r *http.Request) (*Payload, error) {
	if r.ContentLength == 0 {
		return nil, newError(MissingFile, "arquivo obrigatório no campo file")
	}
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, extractionFailure(err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := r.MultipartForm.File[fileField]
	if len(files) == 0 {
		return nil, newError(MissingFile, "arquivo obrigatório no campo file")
	}

	payload, err := readMultipartFile(files[0])
	if err != nil {
		return nil, extractionFailure(err)
	}
	return payload, nil
}

func readMultipartFile(header *multipart.FileHeader) (*Payload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir arquivo: %w", err)
	}
	defer file.Close()

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return nil, fmt.Errorf("falha ao ler arquivo: %w", err)
	}

	return &Payload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        buf.Bytes(),
	}, nil
}

func extractionFailure(err error) *Error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return newError(PayloadTooLarge, fmt.Sprintf("arquivo excede %d bytes", tooLarge.Limit))
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, io.EOF), errors.Is(err, http.ErrMissingFile):
		return newError(MissingFile, "arquivo obrigatório no campo file")
	default:
		return &Error{Kind: MalformedBody, Message: "multipart inválido", Err: err}
	}
}

func storeFailure(err error) *Error {
	if errors.Is(err, storage.ErrNotConfigured) {
		return &Error{Kind: NotConfigured, Message: "armazenamento não configurado", Err: err}
	}
	return wrapError(StoreIOFailure, err)
}

func writeFailure(ctx context.Context, w http.ResponseWriter, filename string, err error) {
	var failure *Error
	if !errors.As(err, &failure) {
		failure = wrapError(StoreIOFailure, err)
	}

	logger := ctxLogger(ctx)
	event := logger.Warn()
	if failure.Status() >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(failure.Err).
		Str("filename", filename).
		Str("kind", failure.Kind.String()).
		Msg(failure.Message)

	writeError(w, failure.Body())
}

func logRequest(ctx context.Context, label, filename string, size int, start time.Time) {
	ctxLogger(ctx).Info().
		Str("label", label).
		Str("filename", filename).
		Int("size", size).
		Dur("duration", time.Since(start)).
		Msg("blob_request")
}

// ctxLogger usa o logger da requisição (com request_id) e cai no global quando não há um.
func ctxLogger(ctx context.Context) *zerolog.Logger {
	if l := log.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

func writeError(w http.ResponseWriter, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	_ = json.NewEncoder(w).Encode(body)
}
