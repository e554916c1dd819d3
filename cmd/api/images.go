package main

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

const maxUploadBytes = 5 << 20 // 5 MB

var errNotAnImage = errors.New("uploaded file must be an image")

type upload struct {
	file        multipart.File
	contentType string
}

// readImageUpload parses a multipart form and opens the image under field.
// The caller closes the returned file.
func readImageUpload(w http.ResponseWriter, r *http.Request, field string) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return nil, errNotAnImage
	}
	return &upload{file: file, contentType: contentType}, nil
}

// optionalFormValue returns nil when key is absent from the form.
func optionalFormValue(r *http.Request, key string) *string {
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
