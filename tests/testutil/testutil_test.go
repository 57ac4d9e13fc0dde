package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/interfaces/http/dto"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
}

func TestRequestHelpers(t *testing.T) {
	engine := gin.New()
	engine.Use(TestActorMiddleware(TestActorID()))
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		body["actor"] = c.GetString("actor_id")
		c.JSON(http.StatusCreated, dto.NewSuccessResponse(body))
	})
	engine.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "nope"))
	})

	t.Run("decodes data", func(t *testing.T) {
		w := Request(t, engine, http.MethodPost, "/echo", map[string]string{"name": "x"})
		data := DecodeData[map[string]string](t, w, http.StatusCreated)
		assert.Equal(t, "x", data["name"])
		assert.Equal(t, TestActorID().String(), data["actor"])
	})

	t.Run("asserts error", func(t *testing.T) {
		w := Request(t, engine, http.MethodGet, "/missing", nil)
		AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})
}

func TestRecordingEventHandler(t *testing.T) {
	h := NewRecordingEventHandler("A")
	assert.Equal(t, []string{"A"}, h.EventTypes())

	go func() {
		_ = h.Handle(t.Context(), NewTestEvent("A"))
	}()
	require.True(t, WaitForEventCount(t, h, 1, time.Second))
	assert.Equal(t, []string{"A"}, h.HandledTypes())
}
