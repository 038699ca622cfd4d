package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/config"
	"github.com/adcapture/shoot-scheduler-go/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.TaskRecord{}))

	path := filepath.Join(t.TempDir(), "areas.yaml")
	doc := `areas:
  - name: harbor-north
    locations:
      - Pier 4
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	return &Handler{DB: db, Config: config.Default(), AreaMapPath: path}
}

func postValidate(t *testing.T, h *Handler) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/validate", nil)

	h.ValidateStore(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestValidateStoreCleanSnapshot(t *testing.T) {
	h := testHandler(t)
	require.NoError(t, h.DB.Create(&database.TaskRecord{
		ID:        "t1",
		Location:  "Pier 4",
		Status:    database.TaskStatusPending,
		LiveStart: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		LiveEnd:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		TimeBlock: "day",
	}).Error)

	body := postValidate(t, h)
	assert.Equal(t, true, body["valid"])
	assert.Empty(t, body["problems"])
}

func TestValidateStoreReportsProblems(t *testing.T) {
	h := testHandler(t)
	require.NoError(t, h.DB.Create(&database.TaskRecord{
		ID:        "bad",
		Location:  "Nowhere Lane",
		Status:    database.TaskStatusPending,
		LiveStart: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		LiveEnd:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		TimeBlock: "afternoon-ish",
	}).Error)

	body := postValidate(t, h)
	assert.Equal(t, false, body["valid"])
	problems, ok := body["problems"].([]any)
	require.True(t, ok)
	assert.Len(t, problems, 3, "inverted window, unknown time block, unmapped location")
}

func TestValidateStoreMissingAreaTable(t *testing.T) {
	h := testHandler(t)
	h.AreaMapPath = filepath.Join(t.TempDir(), "missing.yaml")

	body := postValidate(t, h)
	assert.Equal(t, false, body["valid"])
	assert.NotEmpty(t, body["error"])
}
