package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gael-paolo/st-parts-track/config"
	"github.com/gael-paolo/st-parts-track/engine"
	"github.com/gael-paolo/st-parts-track/model"
	"github.com/gael-paolo/st-parts-track/pkg/logger"
	"github.com/gael-paolo/st-parts-track/service"
)

// ObjectFetcher retrieves a source table object by name.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, objectName string) ([]byte, error)
}

// Summarizer turns classified pairs into prose.
type Summarizer interface {
	Summarize(ctx context.Context, pairs []service.SummaryPair) (string, error)
}

// errSourceUnavailable hides raw storage errors from users; the log entry
// keeps the detail.
var errSourceUnavailable = errors.New("the source table could not be retrieved; try again shortly")

type TrackHandler struct {
	fetcher    ObjectFetcher
	summarizer Summarizer
	cfg        *config.Config
}

func NewTrackHandler(fetcher ObjectFetcher, summarizer Summarizer, cfg *config.Config) *TrackHandler {
	return &TrackHandler{
		fetcher:    fetcher,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

type referenceRequest struct {
	Via       string `json:"via"`
	Reference string `json:"reference"`
}

type clientSearchRequest struct {
	Via   string `json:"via"`
	Query string `json:"query"`
}

type transitRequest struct {
	PartNumber string `json:"part_number"`
}

// Reference handles the exact reference lookup: load, normalize, filter,
// classify, summarize. A summarizer failure never hides the classified
// records; it is reported beside them.
func (h *TrackHandler) Reference(c *gin.Context) {
	var req referenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	via := model.ImportVia(req.Via)
	if !via.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The import route must be \"air\" or \"sea\""})
		return
	}
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reference is required"})
		return
	}

	table, lines, err := h.loadOrders(c.Request.Context(), via)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	matched := make([]model.OrderLine, 0)
	for _, line := range lines {
		if line.Reference == reference {
			matched = append(matched, line)
		}
	}

	if len(matched) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"records": []model.AnalysisResult{},
			"message": "No records were found for the provided reference.",
		})
		return
	}

	h.respondClassified(c, table, matched)
}

// ClientSearch handles the fuzzy client-name search. All lines are
// classified first; the similarity filter then narrows by client name.
func (h *TrackHandler) ClientSearch(c *gin.Context) {
	var req clientSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	via := model.ImportVia(req.Via)
	if !via.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The import route must be \"air\" or \"sea\""})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A client name is required"})
		return
	}

	table, lines, err := h.loadOrders(c.Request.Context(), via)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	variant := engine.ParseVariant(h.cfg.Rules.Variant)
	results := engine.ClassifyAll(variant, lines, time.Now())
	similar := engine.FilterSimilar(results, "client", req.Query,
		h.cfg.Search.Limit, h.cfg.Search.Threshold)

	if len(similar) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"records": []model.AnalysisResult{},
			"message": "No similar client names were found.",
		})
		return
	}

	h.respondSummarized(c, table, similar)
}

// Transit handles the in-transit-material lookup by exact part number.
func (h *TrackHandler) Transit(c *gin.Context) {
	var req transitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	partNumber := strings.TrimSpace(req.PartNumber)
	if partNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A part number is required"})
		return
	}

	data, err := h.fetcher.FetchObject(c.Request.Context(), h.cfg.Sources.TransitObject)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to fetch transit table", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "The in-transit table could not be retrieved; try again shortly"})
		return
	}

	items, err := service.DecodeTransit(data, h.cfg.Sources.TransitObject,
		h.cfg.Sources.TransitSheet, h.cfg.Sources.HeaderRow)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	matched := make([]model.TransitItem, 0)
	for _, item := range items {
		if item.PartNumber == partNumber {
			matched = append(matched, item)
		}
	}

	if len(matched) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"items":   []model.TransitItem{},
			"message": "No in-transit material was found for the provided part number.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": matched})
}

// loadOrders fetches and decodes the order table for a route, returning the
// decoded table and the normalized lines.
func (h *TrackHandler) loadOrders(ctx context.Context, via model.ImportVia) (*service.RawTable, []model.OrderLine, error) {
	ctx = context.WithValue(ctx, logger.ImportViaKey, string(via))

	objectName := h.cfg.Sources.AirObject
	sheet := h.cfg.Sources.AirSheet
	if via == model.ViaSea {
		objectName = h.cfg.Sources.SeaObject
		sheet = h.cfg.Sources.SeaSheet
	}

	data, err := h.fetcher.FetchObject(ctx, objectName)
	if err != nil {
		logger.Error(ctx, "failed to fetch source table", "object", objectName, "error", err)
		return nil, nil, errSourceUnavailable
	}

	table, err := service.DecodeOrders(data, objectName, sheet, h.cfg.Sources.HeaderRow)
	if err != nil {
		logger.Error(ctx, "failed to decode source table", "object", objectName, "error", err)
		return nil, nil, err
	}

	lines := make([]model.OrderLine, len(table.Rows))
	for i, row := range table.Rows {
		lines[i] = engine.Normalize(row, via)
	}
	return table, lines, nil
}

// respondClassified classifies matched lines and answers with records,
// display columns and the (optional) generated summary.
func (h *TrackHandler) respondClassified(c *gin.Context, table *service.RawTable, lines []model.OrderLine) {
	variant := engine.ParseVariant(h.cfg.Rules.Variant)
	results := engine.ClassifyAll(variant, lines, time.Now())
	h.respondSummarized(c, table, results)
}

func (h *TrackHandler) respondSummarized(c *gin.Context, table *service.RawTable, results []model.AnalysisResult) {
	resp := gin.H{
		"records": results,
		"columns": table.DisplayColumns(),
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), service.SummaryPairs(results))
	if err != nil {
		logger.Warn(c.Request.Context(), "summarization failed", "error", err)
		resp["summary_error"] = "The summary could not be generated; the classified records are shown without it."
	} else {
		resp["summary"] = summary
	}

	c.JSON(http.StatusOK, resp)
}
