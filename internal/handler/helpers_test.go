package handler

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tarekelsergany/gold-ecommerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() { gin.SetMode(gin.TestMode) }

func respondStatus(t *testing.T, err error) int {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)
	return w.Code
}

func TestRespondErrorTaxonomy(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, respondStatus(t, service.ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, respondStatus(t, fmt.Errorf("%w: weight must be positive", service.ErrInvalidInput)))
	assert.Equal(t, http.StatusNotFound, respondStatus(t, service.ErrNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, respondStatus(t, service.ErrStoreUnavailable))
	assert.Equal(t, http.StatusInternalServerError, respondStatus(t, errors.New("boom")))
}

func TestRespondErrorStoreOutage(t *testing.T) {
	// Connectivity failures reach the handler as raw driver errors, not as
	// the sentinel; they must still land on 503, never the generic 500.
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	assert.Equal(t, http.StatusServiceUnavailable, respondStatus(t, fmt.Errorf("list products: %w", dial)))
	assert.Equal(t, http.StatusServiceUnavailable, respondStatus(t, context.DeadlineExceeded))
	assert.Equal(t, http.StatusServiceUnavailable, respondStatus(t, fmt.Errorf("ping: %w", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusServiceUnavailable, respondStatus(t, driver.ErrBadConn))
	assert.Equal(t, http.StatusServiceUnavailable, respondStatus(t, sql.ErrConnDone))
}
