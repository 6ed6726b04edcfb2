package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"phototask/internal/service"
)

// imageFields are the multipart fields carrying the photo.
// Both are sent so backends expecting either name accept the upload.
var imageFields = []string{"file", "image"}

// ErrNoImageURL is the message used when an upload answer has no URL.
const ErrNoImageURL = "backend did not return a valid image URL"

type uploadResult struct {
	URL string `json:"url"`
}

// UploadImage uploads the JPEG at localPath and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, token, localPath string) (string, error) {
	photo, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	name := filepath.Base(localPath)
	if name == "." || name == string(filepath.Separator) {
		name = "photo.jpg"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, field := range imageFields {
		if err := writeImagePart(mw, field, name, photo); err != nil {
			return "", fmt.Errorf("build upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	body, err := c.do(ctx, service.OpUploadImage, token, http.MethodPost, "/images", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}

	// The URL lives in data.url, or in url at the top level.
	if url := imageURL(body); url != "" {
		return url, nil
	}
	e := service.UnexpectedResponse(service.OpUploadImage, ErrNoImageURL)
	e.Details = string(body)
	return "", e
}

func imageURL(body []byte) string {
	var res uploadResult
	if err := json.Unmarshal(payload(body), &res); err == nil && res.URL != "" {
		return res.URL
	}
	res = uploadResult{}
	if err := json.Unmarshal(body, &res); err == nil {
		return res.URL
	}
	return ""
}

func writeImagePart(mw *multipart.Writer, field, filename string, data []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, bytes.NewReader(data))
	return err
}
