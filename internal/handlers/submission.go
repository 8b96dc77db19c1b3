package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kidwell/api-backend/internal/models"
	"github.com/kidwell/api-backend/internal/services"
)

// Submission fields that steer the request rather than describe the child's day
const (
	fieldNotifyEmail = "notifyEmail"
	fieldSaveRecord  = "saveRecord"
	fieldLogDate     = "logDate"
)

// maxMultipartMemory is kept in memory before multipart files spill to disk
const maxMultipartMemory = 8 << 20

var errBodyTooLarge = errors.New("request body too large")

// submission is a parsed health log submission, JSON or multipart
type submission struct {
	fields  map[string]any
	uploads map[models.MealSlot]services.ImageUpload
	closers []io.Closer
}

// text returns a control field as a trimmed string
func (s *submission) text(key string) string {
	switch v := s.fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case []string:
		if len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
	}
	return ""
}

// flag returns a control field as a boolean; JSON true or form "true"/"1"
func (s *submission) flag(key string) bool {
	if b, ok := s.fields[key].(bool); ok {
		return b
	}
	b, _ := strconv.ParseBool(s.text(key))
	return b
}

// close releases any open multipart files
func (s *submission) close() {
	for _, c := range s.closers {
		c.Close()
	}
}

// parseSubmission reads a JSON or multipart body.
// An empty JSON body is an empty submission.
func parseSubmission(c *gin.Context) (*submission, error) {
	sub := &submission{
		fields:  map[string]any{},
		uploads: map[models.MealSlot]services.ImageUpload{},
	}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := parseMultipart(c, sub); err != nil {
			sub.close()
			return nil, err
		}
		return sub, nil
	}

	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&sub.fields); err != nil {
		if errors.Is(err, io.EOF) {
			return sub, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if sub.fields == nil {
		sub.fields = map[string]any{}
	}
	return sub, nil
}

func parseMultipart(c *gin.Context, sub *submission) error {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("invalid multipart body: %w", err)
	}

	form := c.Request.MultipartForm
	for key, values := range form.Value {
		sub.fields[key] = values
	}

	for _, slot := range models.MealSlots {
		headers := form.File[services.MealImageField(slot)]
		if len(headers) == 0 {
			continue
		}
		upload, closer, err := openUpload(headers[0])
		if err != nil {
			return fmt.Errorf("failed to read %s image: %w", slot, err)
		}
		sub.closers = append(sub.closers, closer)
		sub.uploads[slot] = upload
	}

	return nil
}

// openUpload opens a multipart file, sniffing its type when the client sent none
func openUpload(fh *multipart.FileHeader) (services.ImageUpload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return services.ImageUpload{}, nil, err
	}

	contentType := fh.Header.Get("Content-Type")
	var body io.Reader = f
	if contentType == "" || contentType == "application/octet-stream" {
		br := bufio.NewReaderSize(f, 512)
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
		body = br
	}

	return services.ImageUpload{ContentType: contentType, Body: body}, f, nil
}
