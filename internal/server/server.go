// Package server exposes the extraction pipeline over HTTP. It is a thin
// adapter: all semantics live in the internal packages it delegates to.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/common"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/export"
	"github.com/devfolarin/payslip-extractor/internal/extractor"
	"github.com/devfolarin/payslip-extractor/internal/format"
	"github.com/devfolarin/payslip-extractor/internal/learning"
)

type Server struct {
	coordinator *extractor.Coordinator
	detector    *format.Detector
	tracker     *learning.Tracker
	exporter    *export.Service
	logger      *slog.Logger
}

func New(
	coordinator *extractor.Coordinator,
	detector *format.Detector,
	tracker *learning.Tracker,
	exporter *export.Service,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		coordinator: coordinator,
		detector:    detector,
		tracker:     tracker,
		exporter:    exporter,
		logger:      logger,
	}
}

// Register mounts all routes on the given engine.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/healthz", s.health)

	v1 := r.Group("/v1")
	v1.POST("/extract", s.extract)
	v1.POST("/detect", s.detect)
	v1.POST("/export", s.exportRecords)
	v1.GET("/learning/candidates", s.promotionCandidates)
	v1.DELETE("/learning/:abbreviation", s.deleteAbbreviation)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extract handles POST /v1/extract: a multipart "file" upload plus an
// optional "hint" form value, returning the extracted record as JSON.
func (s *Server) extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "failed to open upload", err)
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.Warn("server.upload_close.failed", "error", cerr)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	hint := constants.ParseFormat(c.PostForm("hint"))

	record, err := s.coordinator.ExtractRecord(c.Request.Context(), data, hint)
	if err != nil {
		if errors.Is(err, common.ErrUnreadableInput) {
			s.sendError(c, http.StatusUnprocessableEntity, "input is not a readable document", err)
			return
		}
		s.sendError(c, http.StatusInternalServerError, "extraction failed", err)
		return
	}

	c.JSON(http.StatusOK, record)
}

type detectRequest struct {
	Text string `json:"text" binding:"required"`
	Hint string `json:"hint"`
}

// detect handles POST /v1/detect over already-rendered text.
func (s *Server) detect(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.sendError(c, http.StatusBadRequest, "text is required", err)
		return
	}

	result := s.detector.DetectDetailed(c.Request.Context(), req.Text, constants.ParseFormat(req.Hint))
	c.JSON(http.StatusOK, result)
}

type exportRequest struct {
	Records []*entity.PayslipRecord `json:"records" binding:"required"`
}

// exportRecords handles POST /v1/export: previously extracted records posted
// back as JSON come out as an XLSX workbook.
func (s *Server) exportRecords(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Records) == 0 {
		s.sendError(c, http.StatusBadRequest, "records are required", err)
		return
	}

	workbook, err := s.exporter.RecordsXLSX(req.Records)
	if err != nil {
		s.sendError(c, http.StatusInternalServerError, "export failed", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="payslips.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

func (s *Server) promotionCandidates(c *gin.Context) {
	min := 5
	if raw := c.Query("min"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.sendError(c, http.StatusBadRequest, "min must be a positive integer", err)
			return
		}
		min = parsed
	}

	candidates := s.tracker.PromotionCandidates(min)
	type candidate struct {
		Abbreviation  string                 `json:"abbreviation"`
		Count         int                    `json:"count"`
		Contexts      []string               `json:"contexts"`
		SuggestedType learning.SuggestedType `json:"suggested_type"`
	}
	out := make([]candidate, 0, len(candidates))
	for _, rec := range candidates {
		out = append(out, candidate{
			Abbreviation:  rec.Abbreviation,
			Count:         rec.Count,
			Contexts:      rec.Contexts,
			SuggestedType: s.tracker.SuggestType(rec.Abbreviation),
		})
	}
	c.JSON(http.StatusOK, gin.H{"candidates": out})
}

func (s *Server) deleteAbbreviation(c *gin.Context) {
	abbreviation := c.Param("abbreviation")
	if err := s.tracker.Delete(c.Request.Context(), abbreviation); err != nil {
		s.sendError(c, http.StatusInternalServerError, "delete failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sendError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		s.logger.Error("server.request.failed", "status", status, "message", message, "error", err)
	}
	c.JSON(status, gin.H{"error": message})
}
