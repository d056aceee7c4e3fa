package transport

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/muhammadheryan/landing-api/model"
)

const (
	maxBodyBytes      = 64 << 10
	maxMultipartBytes = 1 << 20
)

// decodeFields reads a JSON, urlencoded or multipart body into one flat
// field map, so every handler sees the same shape whatever the encoding.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, errUnsupportedBody
	}

	switch mediaType {
	case "application/json":
		fields := map[string]string{}
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return flatten(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
			return nil, err
		}
		return flatten(r.MultipartForm.Value), nil
	}
	return nil, errUnsupportedBody
}

var errUnsupportedBody = errors.New("unsupported content type")

func flatten(values url.Values) map[string]string {
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}

func contactRequestFrom(fields map[string]string) *model.ContactRequest {
	return &model.ContactRequest{
		Name:        fields["name"],
		Email:       fields["email"],
		Phone:       fields["phone"],
		ServiceType: fields["service_type"],
		Message:     fields["message"],
	}
}

func updateStatusRequestFrom(fields map[string]string) *model.UpdateStatusRequest {
	return &model.UpdateStatusRequest{
		ID:     strings.TrimSpace(fields["id"]),
		Status: strings.TrimSpace(fields["status"]),
	}
}
