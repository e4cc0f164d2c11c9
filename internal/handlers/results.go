package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ccis-go/internal/repository"
)

// ResultsHandler serves the chart option payloads the dashboard renders
// client-side with echarts.
type ResultsHandler struct {
	log *zap.Logger
}

func NewResultsHandler(log *zap.Logger) *ResultsHandler {
	return &ResultsHandler{log: log}
}

func (h *ResultsHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": repository.MetricKeys()})
}

func (h *ResultsHandler) Timeline(c *gin.Context) {
	personID := c.Query("personId")
	competencyID := c.Query("competencyId")
	metricKey := c.DefaultQuery("metric", "weighted_score")
	if personID == "" || competencyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "personId and competencyId are required"})
		return
	}

	data, err := repository.GetTimelineData(c.Request.Context(), personID, competencyID, metricKey)
	if err != nil {
		h.log.Error("Failed to get timeline data", zap.Error(err),
			zap.String("personID", personID), zap.String("metricKey", metricKey))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to load timeline data"})
		return
	}

	chart := generateTimelineChart(data, metricLabel(metricKey))
	c.JSON(http.StatusOK, chart.JSON())
}

func (h *ResultsHandler) Correlation(c *gin.Context) {
	personID := c.Query("personId")
	xMetric := c.DefaultQuery("x", "hint_request_frequency")
	yMetric := c.DefaultQuery("y", "weighted_score")
	if personID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "personId is required"})
		return
	}

	data, err := repository.GetCorrelationData(c.Request.Context(), personID, xMetric, yMetric)
	if err != nil {
		h.log.Error("Failed to get correlation data", zap.Error(err),
			zap.String("personID", personID), zap.String("x", xMetric), zap.String("y", yMetric))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to load correlation data"})
		return
	}

	chart := generateCorrelationChart(data, metricLabel(xMetric), metricLabel(yMetric))
	c.JSON(http.StatusOK, chart.JSON())
}

func metricLabel(key string) string {
	return strings.Title(strings.ReplaceAll(key, "_", " "))
}

func generateTimelineChart(data []repository.TimelineDataPoint, label string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Metric Over Time",
			Subtitle: label,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0)
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	line.AddSeries(label, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

func generateCorrelationChart(data []repository.CorrelationDataPoint, xLabel, yLabel string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Metric Correlation",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: xLabel,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: yLabel,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.ScatterData, 0)
	for _, point := range data {
		items = append(items, opts.ScatterData{Value: []interface{}{point.XValue, point.YValue}})
	}

	scatter.AddSeries("Correlation", items)
	return scatter
}
