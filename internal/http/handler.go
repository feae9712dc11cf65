package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	mapping   *service.MappingService
	equipment *service.EquipmentService
	outages   *service.OutageService
	log       zerolog.Logger
}

func NewHandler(mapping *service.MappingService, equipment *service.EquipmentService, outages *service.OutageService, log zerolog.Logger) *Handler {
	return &Handler{mapping: mapping, equipment: equipment, outages: outages, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/jobs", h.submitJob)
	protected.GET("/jobs/:id", h.getJob)
	protected.GET("/jobs/:id/records", h.listRecords)
	protected.GET("/jobs/:id/events", h.streamJob)
	protected.POST("/jobs/:id/cancel", h.cancelJob)
	protected.GET("/jobs/:id/export", h.exportJob)
	protected.GET("/jobs/:id/export/pdf", h.exportJobPDF)

	protected.POST("/contacts/resolve", h.resolveContact)

	protected.POST("/equipment/table", h.uploadEquipment)
	protected.POST("/equipment/match", h.matchEquipment)

	protected.POST("/outages/map", h.mapOutages)
	protected.POST("/outages/map/export", h.exportOutages)
}

type submitRowsRequest struct {
	Rows []model.AddressRow `json:"rows" binding:"required"`
}

func (h *Handler) submitJob(c *gin.Context) {
	var (
		job *model.Job
		err error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		defer file.Close()
		job, err = h.mapping.SubmitTable(c.Request.Context(), header.Filename, file)
	} else {
		var req submitRowsRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": berr.Error()})
			return
		}
		job, err = h.mapping.SubmitRows(c.Request.Context(), req.Rows)
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, job)
}

func (h *Handler) getJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	job, err := h.mapping.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "progress": job.Progress()})
}

func (h *Handler) listRecords(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	records, err := h.mapping.Records(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *Handler) streamJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	updates, unsubscribe, err := h.mapping.Subscribe(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case progress, ok := <-updates:
			if ok {
				c.SSEvent("progress", progress)
				return true
			}
			if job, err := h.mapping.Get(c.Request.Context(), id); err == nil {
				c.SSEvent("done", job.Progress())
			}
			return false
		}
	})
}

func (h *Handler) cancelJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	job, err := h.mapping.Cancel(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

func (h *Handler) exportJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.mapping.ExportExcel(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, result)
}

func (h *Handler) exportJobPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.mapping.ExportPDF(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, contentTypePDF, result)
}

type addressRequest struct {
	Address string `json:"address" binding:"required"`
}

func (h *Handler) resolveContact(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.mapping.ResolveOne(c.Request.Context(), req.Address)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) uploadEquipment(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	rows, err := h.equipment.LoadTable(header.Filename, file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *Handler) matchEquipment(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	match, err := h.equipment.Match(req.Address)
	if err != nil {
		h.handleError(c, err)
		return
	}

	var count *int
	if match.Known {
		count = &match.Count
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "method": match.Method})
}

type outageRequest struct {
	Targets []model.OutageTarget `json:"targets" binding:"required,dive"`
}

func (h *Handler) mapOutages(c *gin.Context) {
	var req outageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mappings, err := h.outages.MapTargets(c.Request.Context(), req.Targets)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

func (h *Handler) exportOutages(c *gin.Context) {
	var req outageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.outages.Export(c.Request.Context(), req.Targets)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, result)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrJobFinished), errors.Is(err, service.ErrNoEquipmentTable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExportUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return uuid.Nil, false
	}
	return id, true
}

func sendFile(c *gin.Context, contentType string, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}
