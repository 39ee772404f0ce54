package controllers

import (
	"errors"
	"net/http"

	"github.com/rowdysden/rowdysden-backend/api/responses"
	"github.com/rowdysden/rowdysden-backend/internal/uploads"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
)

const uploadField = "file"

// multipart envelope overhead allowed on top of the file limit
const multipartSlack = 1 << 20

// UploadImage handles a multipart upload with the image in field "file".
func UploadImage(svc uploads.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)
		if err := r.ParseMultipartForm(maxBytes + multipartSlack); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "file exceeds upload limit").
					WithDetails(map[string]any{"max_bytes": maxBytes}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		if r.MultipartForm != nil {
			defer func() { _ = r.MultipartForm.RemoveAll() }()
		}

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required").
				WithDetails(map[string]any{"field": uploadField}))
			return
		}
		defer file.Close()

		result, err := svc.Upload(r.Context(), header.Filename, file, header.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, result)
	}
}
