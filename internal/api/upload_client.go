package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"campusmarket/pkg/apperror"
)

// imageExtensions — допустимые расширения картинок, в любом регистре.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImageFilename reports whether the name carries a recognised image
// extension, case-insensitively.
func IsImageFilename(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// UploadClient exchanges a binary image for a served URL via /api/upload.
type UploadClient struct {
	*Client
}

func NewUploadClient(base *Client) *UploadClient {
	return &UploadClient{Client: base}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage sends the file as multipart field "image" and returns the URL
// the backend will serve it from. The extension is checked before anything
// goes on the wire, mirroring the server's own rule.
func (c *UploadClient) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	if !IsImageFilename(filename) {
		return "", &apperror.ValidationError{Field: "image", Reason: "not an image file"}
	}

	payload := &multipartPayload{
		fileField: "image",
		filename:  filepath.Base(filename),
		file:      file,
	}

	var resp uploadResponse
	if err := c.doMultipart(ctx, http.MethodPost, "/api/upload", payload, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
