package handlers

import (
	"context"
	"fmt"
	"net/http"

	"clinscore/internal/instruments"
	"clinscore/internal/models"
	"clinscore/internal/repository"
	"clinscore/internal/scoring"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// ResultReader reads persisted assessment history.
type ResultReader interface {
	List(ctx context.Context, clientName, instrumentID string) ([]models.AssessmentResult, error)
	Timeline(ctx context.Context, clientName, instrumentID string) ([]repository.TimelineDataPoint, error)
}

type ResultsHandler struct {
	log    *zap.Logger
	reader ResultReader
}

// NewResultsHandler wires the history endpoints. With a nil reader they
// answer 503.
func NewResultsHandler(log *zap.Logger, reader ResultReader) *ResultsHandler {
	return &ResultsHandler{log: log, reader: reader}
}

func (h *ResultsHandler) available(c *gin.Context) bool {
	if h.reader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result history is not enabled"})
		return false
	}
	return true
}

// List returns a client's persisted results, optionally for one instrument.
func (h *ResultsHandler) List(c *gin.Context) {
	if !h.available(c) {
		return
	}
	client := c.Query("client")
	if client == "" {
		badRequest(c, "client is required")
		return
	}
	instrumentID := c.Query("instrument")
	if instrumentID != "" {
		if _, err := instruments.Get(instrumentID); err != nil {
			respondError(c, h.log, err)
			return
		}
	}

	results, err := h.reader.List(c.Request.Context(), client, instrumentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Chart returns echarts options for a client's score timeline on one
// instrument, with the band thresholds drawn as mark lines.
func (h *ResultsHandler) Chart(c *gin.Context) {
	if !h.available(c) {
		return
	}
	client, instrumentID := c.Query("client"), c.Query("instrument")
	if client == "" || instrumentID == "" {
		badRequest(c, "client and instrument are required")
		return
	}
	inst, err := instruments.Get(instrumentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	bands, err := scoring.Bands(instrumentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	data, err := h.reader.Timeline(c.Request.Context(), client, instrumentID)
	if err != nil {
		h.log.Error("Failed to get timeline data", zap.Error(err),
			zap.String("client", client), zap.String("instrument", instrumentID))
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, generateTimelineChart(data, inst.Name, bands).JSON())
}

func generateTimelineChart(data []repository.TimelineDataPoint, title string, bands scoring.BandTable) *charts.Line {
	low, high := bands.Range()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "Total score over time",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Min:  low,
			Max:  high,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	// Create data points in the format [date, value]
	items := make([]opts.LineData, 0, len(data))
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	// The first band starts at the floor of the scale, so it gets no line.
	thresholds := make([]opts.MarkLineNameYAxisItem, 0, len(bands))
	for _, b := range bands[min(1, len(bands)):] {
		thresholds = append(thresholds, opts.MarkLineNameYAxisItem{
			Name:  fmt.Sprintf("%s (%d)", b.Level, b.Min),
			YAxis: b.Min,
		})
	}

	line.AddSeries("Total", items).SetSeriesOptions(
		charts.WithLineStyleOpts(opts.LineStyle{Width: 2}),
		charts.WithMarkLineNameYAxisItemOpts(thresholds...),
	)
	return line
}
