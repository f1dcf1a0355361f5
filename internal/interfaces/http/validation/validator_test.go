package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "quilkalam-api/pkg/errors"
)

type sampleItem struct {
	Name string `json:"name" binding:"required"`
}

type sampleRequest struct {
	PhoneNumber string       `json:"phoneNumber" binding:"required,min=10"`
	Email       string       `json:"email" binding:"omitempty,email"`
	Kind        string       `json:"kind" binding:"omitempty,oneof=a b"`
	Items       []sampleItem `json:"items" binding:"dive"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req sampleRequest
	return c.ShouldBindJSON(&req)
}

func TestBindError_UsesJSONFieldNames(t *testing.T) {
	err := bind(t, `{"phoneNumber":"123","email":"nope","kind":"c","items":[{"name":""}]}`)
	require.Error(t, err)

	appErr := BindError(err)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Equal(t,
		"email must be a valid email address; items[0].name is required; kind must be one of: a b; phoneNumber must be at least 10 characters",
		appErr.Detail)
}

func TestBindError_MalformedJSON(t *testing.T) {
	err := bind(t, `{"phoneNumber":`)
	require.Error(t, err)
	appErr := BindError(err)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)

	err = bind(t, `{"phoneNumber":12}`)
	require.Error(t, err)
	appErr = BindError(err)
	assert.Equal(t, "invalid request body", appErr.Message)
	assert.Contains(t, appErr.Detail, "phoneNumber")
}
