package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{ErrTokenExpired, http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{ErrProjectNotFound, http.StatusNotFound},
		{ErrCommentNotFound, http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{ErrStorage, http.StatusBadGateway},
		{ErrDatabase, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus)
		})
	}
}

func TestWithDetailCopies(t *testing.T) {
	detailed := ErrTokenInvalid.WithDetail("bad header")
	assert.Equal(t, "bad header", detailed.Detail)
	assert.Empty(t, ErrTokenInvalid.Detail)
	assert.True(t, stderrors.Is(detailed, ErrTokenInvalid))
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("load project: %w", ErrProjectNotFound)
	assert.Equal(t, CodeProjectNotFound, AsAppError(wrapped).Code)
	assert.True(t, HasCode(wrapped, CodeProjectNotFound))
	assert.False(t, HasCode(wrapped, CodeItemNotFound))

	plain := stderrors.New("boom")
	got := AsAppError(plain)
	assert.Equal(t, CodeInternalError, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.ErrorIs(t, got, plain)
	assert.False(t, IsAppError(plain))
}
