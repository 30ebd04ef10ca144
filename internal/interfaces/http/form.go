package http

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
)

// formFromRequest convierte el cuerpo multipart o urlencoded en un actions.Form.
// Solo se toma el primer valor de cada campo.
func formFromRequest(c *fiber.Ctx) (actions.Form, error) {
	values := map[string]string{}
	files := map[string]*actions.FileUpload{}

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		mf, err := c.MultipartForm()
		if err != nil {
			return actions.Form{}, err
		}
		for k, vs := range mf.Value {
			if len(vs) > 0 {
				values[k] = vs[0]
			}
		}
		for k, fhs := range mf.File {
			if len(fhs) > 0 {
				files[k] = fileUpload(fhs[0])
			}
		}
		return actions.NewForm(values, files), nil
	}

	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if _, seen := values[key]; !seen {
			values[key] = string(v)
		}
	})
	return actions.NewForm(values, nil), nil
}

func fileUpload(fh *multipart.FileHeader) *actions.FileUpload {
	return &actions.FileUpload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
