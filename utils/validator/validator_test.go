package validatorx_test

import (
	"strings"
	"testing"

	"github.com/muhammadheryan/landing-api/model"
	validatorx "github.com/muhammadheryan/landing-api/utils/validator"
	"github.com/stretchr/testify/assert"
)

func TestIsPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"(555) 123-4567", true},
		{"+1 555 123 4567", true},
		{"555.123.4567", true},
		{"12-34", false},
		{"555-123-4567 ext", false},
		{"123456789012345", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validatorx.IsPhone(tt.phone), tt.phone)
	}
}

func TestValidateStruct_PhoneLength(t *testing.T) {
	base := model.ContactRequest{
		Name:        "Jane Doe",
		ServiceType: "General Inquiry",
		Message:     "Please call me back about the roof leak.",
	}

	tests := []struct {
		name  string
		phone string
		want  []string
	}{
		{name: "longest accepted", phone: "+1 (555) 123-4567" + strings.Repeat(" ", 15)},
		{name: "padding beyond the column", phone: "555" + strings.Repeat(" ", 300) + "1234567", want: []string{"Phone must be at most 32 characters"}},
		{name: "one over", phone: "+1 (555) 123-4567" + strings.Repeat(" ", 16), want: []string{"Phone must be at most 32 characters"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.Phone = tt.phone
			err := validatorx.ValidateStruct(&req)
			assert.Equal(t, tt.want, validatorx.Messages(err))
		})
	}
}
