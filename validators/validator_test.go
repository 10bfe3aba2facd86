package validators

import (
	"errors"
	"strings"
	"testing"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreatePost(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(models.CreatePostRequest{Content: "hi", Images: []string{"https://cdn.test/upload/a.jpg"}}))

	tooMany := make([]string, 10)
	for i := range tooMany {
		tooMany[i] = "https://cdn.test/upload/a.jpg"
	}
	err := v.Validate(models.CreatePostRequest{Images: tooMany})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "images", verr.Field)
	assert.Equal(t, "must have at most 9 items", verr.Message)

	err = v.Validate(models.CreatePostRequest{Images: []string{"not a url"}})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be a valid URL", verr.Message)
}

func TestValidateComment(t *testing.T) {
	v := NewValidator()

	err := v.Validate(models.CreateCommentRequest{})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "content", verr.Field)
	assert.Equal(t, "is required", verr.Message)

	err = v.Validate(models.CreateCommentRequest{Content: strings.Repeat("x", 501)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at most 500 characters", verr.Message)
}

func TestValidateMarkRead(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.Validate(models.MarkReadRequest{}))
	assert.Error(t, v.Validate(models.MarkReadRequest{IDs: []string{""}}))
	assert.NoError(t, v.Validate(models.MarkReadRequest{IDs: []string{"a"}}))
}
