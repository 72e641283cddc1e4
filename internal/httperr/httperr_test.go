package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) HTTPError {
	t.Helper()
	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWriteError_BusinessCodeMapping(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, fmt.Errorf("delete: %w", ErrBusiness("vehicle_has_open_services")), "x", "y")

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "vehicle_has_open_services", body.Code)
	assert.Contains(t, body.Message, "serviços agendados")
}

func TestWriteError_UniqueViolation(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, &pgconn.PgError{Code: "23505"}, "x", "y")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_exists", decode(t, w).Code)
}

func TestWriteError_Fallback(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, errors.New("boom"), "failed_to_save", "Erro ao salvar.")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed_to_save", decode(t, w).Code)
}

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrBusiness("invalid_state"))
	assert.True(t, IsBusiness(err, "invalid_state"))
	assert.False(t, IsBusiness(err, "other"))
	assert.False(t, IsBusiness(errors.New("invalid_state"), "invalid_state"))
}

func TestPgCodes(t *testing.T) {
	assert.True(t, IsExclusionConflict(fmt.Errorf("tx: %w", &pgconn.PgError{Code: "23P01"})))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
}

type sample struct {
	Plate string `validate:"required"`
	Year  int    `validate:"min=1900"`
}

func TestBindError_ExpandsValidationDetails(t *testing.T) {
	err := validator.New().Struct(sample{Year: 10})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	BindError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid_request", body.Code)
	require.Len(t, body.Details, 2)
	assert.Equal(t, FieldDetail{Field: "Plate", Rule: "required"}, body.Details[0])
	assert.Equal(t, FieldDetail{Field: "Year", Rule: "min", Param: "1900"}, body.Details[1])
}

func TestBindError_MalformedJSONHasNoDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	BindError(c, errors.New("unexpected EOF"))

	body := decode(t, w)
	assert.Empty(t, body.Details)
}
