package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/apperr"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{apperr.Invalid("mal"), http.StatusBadRequest},
		{apperr.Conflict("duplicado"), http.StatusBadRequest},
		{apperr.Unauthorized("quién eres"), http.StatusUnauthorized},
		{apperr.Forbidden("no es tuyo"), http.StatusForbidden},
		{apperr.NotFound("no existe"), http.StatusNotFound},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		respondError(ctx, zap.NewNop(), "Test", c.err)
		if w.Code != c.want {
			t.Errorf("respondError(%v): status = %d, want %d", c.err, w.Code, c.want)
		}
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	respondError(ctx, zap.NewNop(), "Test", errors.New("pgx: connection refused host=10.0.0.3"))

	if body := w.Body.String(); body != `{"error":"error interno del servidor"}` {
		t.Errorf("internal detail leaked: %s", body)
	}
}
