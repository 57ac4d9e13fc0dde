package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type organisation struct {
		Siret    string `json:"siret" binding:"siret"`
		Postcode string `json:"postcode" binding:"postcode"`
	}
	assert.NoError(t, v.Struct(organisation{Siret: "732 829 320 00074", Postcode: "75011"}))

	err := v.Struct(organisation{Siret: "12345", Postcode: "7501"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Equal(t, "siret", verrs[0].Field())
}

func TestFormatValidationErrors(t *testing.T) {
	type createContract struct {
		Reference string `json:"reference" binding:"required"`
		Months    int    `json:"months" binding:"required,min=1,max=60"`
	}

	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req createContract
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns field details for invalid input", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"months": 90}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "req-v1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-v1", resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 2)

		byField := map[string]dto.ValidationDetail{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d
		}
		assert.Equal(t, dto.ErrCodeValidationRequired, byField["reference"].Code)
		assert.Equal(t, dto.ErrCodeValidationRange, byField["months"].Code)
		assert.Equal(t, "Must be at most 60", byField["months"].Message)
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"reference": "CTR-1", "months": 12}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non validation errors carry no details", func(t *testing.T) {
		resp := FormatValidationErrors(assert.AnError, "req-2")
		require.NotNil(t, resp.Error)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string `validate:"required"`
		Email    string `validate:"omitempty,email"`
		Min      string `validate:"min=5"`
		UUID     string `validate:"omitempty,uuid"`
		OneOf    string `validate:"omitempty,oneof=draft sent"`
		GTE      int    `validate:"gte=10"`
	}

	v := validator.New()
	err := v.Struct(sample{Email: "nope", Min: "ab", UUID: "x", OneOf: "paid"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	want := map[string]string{
		"Required": "This field is required",
		"Email":    "Invalid email format",
		"Min":      "Must be at least 5 characters",
		"UUID":     "Invalid UUID format",
		"OneOf":    "Must be one of: draft sent",
		"GTE":      "Must be greater than or equal to 10",
	}
	require.Len(t, verrs, len(want))
	for _, e := range verrs {
		assert.Equal(t, want[e.Field()], getValidationMessage(e), e.Field())
	}
}
