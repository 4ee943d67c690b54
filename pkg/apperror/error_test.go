package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"portfolio-contact-api/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestUpstream(t *testing.T) {
	t.Run("Should keep provider status", func(t *testing.T) {
		err := apperror.Upstream(http.StatusUnauthorized, "unauthorized", map[string]string{"x": "y"}, nil)
		assert.Equal(t, http.StatusUnauthorized, err.Code)
		assert.Equal(t, map[string]string{"x": "y"}, err.Details)
	})

	t.Run("Should default to 500 without a usable status", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, apperror.Upstream(0, "dial", nil, nil).Code)
		assert.Equal(t, http.StatusInternalServerError, apperror.Upstream(200, "odd", nil, nil).Code)
	})
}

func TestBadRequestHasNoMessage(t *testing.T) {
	cause := errors.New("honeypot")
	err := apperror.BadRequest(cause)
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Empty(t, err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestMissingConfig(t *testing.T) {
	err := apperror.MissingConfig([]string{"CONTACT_TO"})
	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, "Missing environment variables", err.Message)
	assert.Equal(t, []string{"CONTACT_TO"}, err.Missing)
}
