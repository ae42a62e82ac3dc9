package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/templui/goalvoice/internal/response"
)

func TestOK(t *testing.T) {
	rr := httptest.NewRecorder()
	response.OK(rr, http.StatusCreated, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, rr.Body.String())
}

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()
	response.Error(rr, http.StatusNotFound, "Goal not found")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Goal not found"}`, rr.Body.String())
}

func TestInvalid(t *testing.T) {
	rr := httptest.NewRecorder()
	response.Invalid(rr, "Validation failed", []map[string]string{{"field": "title", "message": "title is required"}})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Validation failed","errors":[{"field":"title","message":"title is required"}]}`, rr.Body.String())
}
