package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduforge/eduforge-api/internal/models"
	"github.com/eduforge/eduforge-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func emailRouter(svc services.EmailServiceInterface) *gin.Engine {
	router := gin.New()
	router.POST("/api/send-demo-email", NewEmailHandler(svc).SendDemoEmail)
	return router
}

func emailBody() string {
	return `{"bookingData":{"name":"Priya","email":"priya@example.com","phone":"12345",
		"trainingInterest":"UI/UX Design","preferredDate":"2026-09-15","preferredTime":"10:00"},
		"bookingId":"abc-123"}`
}

func postEmail(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/send-demo-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSendDemoEmail_Success(t *testing.T) {
	svc := new(MockEmailService)
	svc.On("SendConfirmation", mock.Anything, mock.MatchedBy(func(req *models.SendDemoEmailRequest) bool {
		return req.BookingID == "abc-123"
	})).Return(nil)

	w := postEmail(emailRouter(svc), emailBody())

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SendDemoEmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
}

func TestSendDemoEmail_ValidationFailure(t *testing.T) {
	svc := new(MockEmailService)
	svc.On("SendConfirmation", mock.Anything, mock.Anything).Return(
		&services.ValidationFailedError{Errors: []string{"Email is required"}})

	w := postEmail(emailRouter(svc), emailBody())

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.SendDemoEmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Email is required")
}

func TestSendDemoEmail_NotConfigured(t *testing.T) {
	svc := new(MockEmailService)
	svc.On("SendConfirmation", mock.Anything, mock.Anything).Return(services.ErrEmailNotConfigured)

	w := postEmail(emailRouter(svc), emailBody())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSendDemoEmail_SendFailure(t *testing.T) {
	svc := new(MockEmailService)
	svc.On("SendConfirmation", mock.Anything, mock.Anything).Return(assert.AnError)

	w := postEmail(emailRouter(svc), emailBody())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp models.SendDemoEmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestSendDemoEmail_MalformedJSON(t *testing.T) {
	svc := new(MockEmailService)

	w := postEmail(emailRouter(svc), `{broken`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SendConfirmation", mock.Anything, mock.Anything)
}
