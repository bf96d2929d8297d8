package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadForm struct {
	Email  string  `json:"email" validate:"required,email"`
	Name   *string `json:"name" validate:"omitempty,max=5"`
	Source string  `json:"source" validate:"required,leadsource"`
	Status *string `json:"status" validate:"omitempty,leadstatus"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	register(v)
	return v
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	bad := "archived"
	err := newValidator().Struct(leadForm{Email: "nope", Source: "tv", Status: &bad})
	require.Error(t, err)

	got := ToDetails(err)
	assert.Equal(t, map[string]string{
		"email":  "must be a valid email",
		"source": "must be one of: webinar, whatsapp, phone, linktree, website",
		"status": "must be one of: new, contacted, qualified, converted, closed",
	}, got)
}

func TestLeadAliasesAcceptEnumValues(t *testing.T) {
	v := newValidator()
	for _, src := range []string{"webinar", "whatsapp", "phone", "linktree", "website"} {
		assert.NoError(t, v.Struct(leadForm{Email: "a@x.com", Source: src}), src)
	}
	st := "converted"
	assert.NoError(t, v.Struct(leadForm{Email: "a@x.com", Source: "phone", Status: &st}))
}

func TestToDetailsMalformedJSON(t *testing.T) {
	var f leadForm
	err := json.Unmarshal([]byte(`{"email":`), &f)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"email":42}`), &f)
	assert.Equal(t, map[string]string{"email": "must be a string"}, ToDetails(err))

	assert.Nil(t, ToDetails(nil))
}

func TestToDetailsMaxLength(t *testing.T) {
	long := "Bartholomew"
	err := newValidator().Struct(leadForm{Email: "a@x.com", Source: "phone", Name: &long})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "must be at most 5 characters long"}, ToDetails(err))
}
