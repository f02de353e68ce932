package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/common"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/export"
	"github.com/devfolarin/payslip-extractor/internal/extractor"
	"github.com/devfolarin/payslip-extractor/internal/format"
	"github.com/devfolarin/payslip-extractor/internal/learning"
)

// textPageExtractor treats upload bytes as page text; the sentinel "garbage"
// payload is unreadable.
type textPageExtractor struct{}

func (textPageExtractor) ExtractPages(data []byte) ([]string, error) {
	if string(data) == "garbage" {
		return nil, common.ErrUnreadableInput
	}
	return []string{string(data)}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *learning.Tracker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	detector := format.NewDetector(nil, 0.7, nil)
	tracker := learning.NewTracker(nil, nil, nil)
	coordinator := extractor.NewCoordinator(textPageExtractor{}, detector, nil, nil, nil, nil)

	srv := New(coordinator, detector, tracker, export.NewService(nil), nil)
	r := gin.New()
	srv.Register(r)
	return r, tracker
}

func multipartUpload(t *testing.T, payload, hint string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "statement.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte(payload))
	require.NoError(t, err)
	if hint != "" {
		require.NoError(t, w.WriteField("hint", hint))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "Name: ANIL KUMAR\nGross Pay 5000", "")
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var record map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "ANIL KUMAR", record["name"])
	assert.Equal(t, "medium", record["confidence"])
}

func TestExtractEndpointHonorsHint(t *testing.T) {
	r, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "Name: ANIL KUMAR", string(constants.FormatPSU))
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var record map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, string(constants.FormatPSU), record["format"])
}

func TestExtractEndpointUnreadableInput(t *testing.T) {
	r, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, "garbage", "")
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestExtractEndpointMissingFile(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetectEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/detect",
		strings.NewReader(`{"text":"PRINCIPAL CONTROLLER OF DEFENCE ACCOUNTS"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, string(constants.FormatPCDA), res["format"])
}

func TestDetectEndpointRequiresText(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/detect", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPromotionCandidatesEndpoint(t *testing.T) {
	r, tracker := newTestRouter(t)
	for i := 0; i < 3; i++ {
		tracker.Track("XYZ", constants.ContextEarnings, 100)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/learning/candidates?min=2", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Candidates []struct {
			Abbreviation  string `json:"abbreviation"`
			Count         int    `json:"count"`
			SuggestedType string `json:"suggested_type"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "XYZ", res.Candidates[0].Abbreviation)
	assert.Equal(t, 3, res.Candidates[0].Count)
	assert.Equal(t, "earning", res.Candidates[0].SuggestedType)
}

func TestPromotionCandidatesRejectsBadMin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/learning/candidates?min=zero", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAbbreviationEndpoint(t *testing.T) {
	r, tracker := newTestRouter(t)
	tracker.Track("GONE", constants.ContextEarnings, 10)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/learning/GONE", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, tracker.PromotionCandidates(1))
}

func TestExportEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	record := &entity.PayslipRecord{
		ID:            uuid.New(),
		Name:          "ANIL KUMAR",
		Month:         "March",
		Year:          2024,
		Credits:       decimal.NewFromInt(85500),
		Debits:        decimal.NewFromInt(13000),
		NetRemittance: decimal.NewFromInt(72500),
	}
	body, err := json.Marshal(gin.H{"records": []*entity.PayslipRecord{record}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payslips.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	name, err := f.GetCellValue("Payslips", "B2")
	require.NoError(t, err)
	assert.Equal(t, "ANIL KUMAR", name)
}

func TestExportEndpointRequiresRecords(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/export", strings.NewReader(`{"records":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
