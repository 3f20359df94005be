package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/infinite-track/hris-backend-go/internal/domain/auth"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/middleware"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
)

// maxMultipartMemory bounds the in-memory part of a parsed multipart form;
// larger files spill to disk.
const maxMultipartMemory = 16 << 20

func principal(r *http.Request) (middleware.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return middleware.Principal{}, auth.ErrInvalidToken
	}
	return p, nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		var errs validator.ValidationErrors
		errs.Add(name, name+" must be a positive integer")
		return 0, errs
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		logger.From(r.Context()).Debug("request decode error", "error", err)
	}
	return err
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formPtr returns nil when key was not sent at all.
func formPtr(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// formFloat parses an optional numeric field, recording a field error on failure.
func formFloat(r *http.Request, key string, errs *validator.ValidationErrors) *float64 {
	raw := formPtr(r, key)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		errs.Add(key, key+" must be a number")
		return nil
	}
	return &v
}

// uploadedFile is an optional multipart file. Close is safe on the zero value.
type uploadedFile struct {
	file multipart.File
	name string
	size int64
}

func (u uploadedFile) Reader() io.Reader {
	if u.file == nil {
		return nil
	}
	return u.file
}

func (u uploadedFile) Close() {
	if u.file != nil {
		_ = u.file.Close()
	}
}

func formFile(r *http.Request, key string) (uploadedFile, error) {
	f, header, err := r.FormFile(key)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return uploadedFile{}, nil
		}
		return uploadedFile{}, err
	}
	return uploadedFile{file: f, name: header.Filename, size: header.Size}, nil
}
