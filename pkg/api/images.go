package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/model"
)

// Multipart field names of an image upload. The metadata fields repeat once
// per file, in file order.
const (
	FieldFiles      = "files"
	FieldAltTexts   = "altTexts"
	FieldSortOrders = "sortOrders"
	FieldIsPrimary  = "isPrimary"
)

// ImageClient manages /api/products/{id}/images.
type ImageClient struct {
	c *Client
}

func imagesPath(productID int64) string {
	return productsPath + "/" + pathID(productID) + "/images"
}

// Upload attaches files to a product in one multipart request.
func (ic *ImageClient) Upload(ctx context.Context, productID int64, files []model.ImageUpload) ([]model.FileData, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("upload needs at least one file: %w", core.ErrValidation)
	}

	body, contentType, err := encodeImages(files)
	if err != nil {
		return nil, err
	}

	var out []model.FileData
	err = ic.c.do(ctx, request{
		resource:    "images",
		method:      http.MethodPost,
		path:        imagesPath(productID),
		rawBody:     body,
		contentType: contentType,
	}, &out)
	return out, err
}

func encodeImages(files []model.ImageUpload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		ct := f.ContentType
		if ct == "" {
			ct = http.DetectContentType(f.Data)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldFiles, f.FileName))
		header.Set("Content-Type", ct)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}

	for _, f := range files {
		if err := w.WriteField(FieldAltTexts, f.AltText); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		if err := w.WriteField(FieldSortOrders, strconv.Itoa(f.SortOrder)); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		if err := w.WriteField(FieldIsPrimary, strconv.FormatBool(f.IsPrimary)); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// List returns a product's images.
func (ic *ImageClient) List(ctx context.Context, productID int64) ([]model.FileData, error) {
	var out []model.FileData
	err := ic.c.do(ctx, request{resource: "images", method: http.MethodGet, path: imagesPath(productID)}, &out)
	return out, err
}

// Delete removes one image.
func (ic *ImageClient) Delete(ctx context.Context, productID, imageID int64) error {
	return ic.c.do(ctx, request{resource: "images", method: http.MethodDelete, path: imagesPath(productID) + "/" + pathID(imageID)}, nil)
}

// SetPrimary marks one image as the product's primary image.
func (ic *ImageClient) SetPrimary(ctx context.Context, productID, imageID int64) (*model.FileData, error) {
	var out model.FileData
	err := ic.c.do(ctx, request{
		resource: "images",
		method:   http.MethodPatch,
		path:     imagesPath(productID) + "/" + pathID(imageID) + "/primary",
		body:     struct{}{},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
