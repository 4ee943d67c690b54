package validation_test

import (
	"errors"
	"testing"

	"portfolio-contact-api/pkg/validation"

	"github.com/stretchr/testify/assert"
)

type form struct {
	Email string `validate:"required,contact_email"`
}

func TestContactEmail(t *testing.T) {
	v := validation.New()

	valid := []string{"ana@example.com", "a.b+c@sub.example.com.br"}
	for _, email := range valid {
		assert.NoError(t, v.Struct(form{Email: email}), email)
	}

	invalid := []string{"not-an-email", "ana@example", "ana @example.com", "@example.com", "ana@.com"}
	for _, email := range invalid {
		assert.Error(t, v.Struct(form{Email: email}), email)
		assert.False(t, validation.IsContactEmail(email), email)
	}
}

func TestIsContactEmail(t *testing.T) {
	assert.True(t, validation.IsContactEmail("ana@example.com"))
	assert.False(t, validation.IsContactEmail(""))
	assert.False(t, validation.IsContactEmail("ana@exa mple.com"))
}

func TestFailedFields(t *testing.T) {
	v := validation.New()

	err := v.Struct(form{Email: "not-an-email"})
	assert.Equal(t, []string{"Email:contact_email"}, validation.FailedFields(err))

	err = v.Struct(form{})
	assert.Equal(t, []string{"Email:required"}, validation.FailedFields(err))

	assert.Equal(t, []string{"boom"}, validation.FailedFields(errors.New("boom")))
}
