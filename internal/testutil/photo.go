package testutil

import (
	"bytes"
	"io"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
)

// Photo archivo de prueba con el contenido dado.
func Photo(name, contentType string, data []byte) *actions.FileUpload {
	return &actions.FileUpload{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// SizedPhoto archivo de prueba que declara size bytes sin reservarlos.
func SizedPhoto(name, contentType string, size int64) *actions.FileUpload {
	return &actions.FileUpload{
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(io.LimitReader(zeroReader{}, size)), nil
		},
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
