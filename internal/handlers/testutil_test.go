package handlers

import (
	"bytes"
	"mime/multipart"
	"testing"
)

// newMultipartBody writes a single-file multipart form into buf, along with
// any extra form fields, and returns the content type header value.
func newMultipartBody(tb testing.TB, buf *bytes.Buffer, filename string, content []byte, fields map[string]string) string {
	tb.Helper()
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		tb.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		tb.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			tb.Fatalf("write form field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		tb.Fatalf("close multipart writer: %v", err)
	}
	return mw.FormDataContentType()
}
