package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/guttosm/shoppulse/internal/analytics"
	"github.com/guttosm/shoppulse/internal/domain/dto"
	"github.com/guttosm/shoppulse/internal/domain/models"
	"github.com/guttosm/shoppulse/internal/events"
	"github.com/guttosm/shoppulse/internal/export"
	"github.com/guttosm/shoppulse/internal/ingestion"
	"github.com/guttosm/shoppulse/internal/middleware"
	"github.com/guttosm/shoppulse/internal/service"
	"github.com/guttosm/shoppulse/internal/storage"
	"github.com/guttosm/shoppulse/internal/view"
)

// Options carries the request defaults the handlers apply.
type Options struct {
	DefaultFormat       models.Format
	MaxUploadBytes      int64
	MovingAverageWindow int
	OnlyNegative        bool

	// AllowedOrigins are the browser origins allowed to call the API and
	// open the event stream, besides the server's own.
	AllowedOrigins []string
	// Events, when set, backs GET /api/v1/events.
	Events *events.Hub
}

// Handler provides HTTP handlers for the log session and its analytics.
//
// Responsibilities:
//   - Validate incoming form and query parameters
//   - Load / discard the session log through the service layer
//   - Translate bundles into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc      service.AnalyticsService
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.AnalyticsService, opts Options) *Handler {
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = models.FormatEconomyShopGUI
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.MovingAverageWindow <= 0 {
		opts.MovingAverageWindow = view.DefaultMovingAverageWindow
	}
	h := &Handler{svc: svc, opts: opts}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// UploadLog handles POST /api/v1/logs.
//
// UploadLog godoc
// @Summary      Upload a shop log
// @Description  Parses an EconomyShopGUI (.txt) or ShopGUI+ (.log) file and replaces the session log
// @Tags         logs
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "Log file"
// @Param        format  formData  string  false  "EconomyShopGUI or ShopGUI+" example(ShopGUI+)
// @Success      201     {object}  dto.UploadResponse  "Loaded"
// @Failure      400     {object}  dto.ErrorResponse   "Bad Request"
// @Failure      422     {object}  dto.ErrorResponse   "Unreadable file"
// @Router       /api/v1/logs [post]
func (h *Handler) UploadLog(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)

	format := h.opts.DefaultFormat
	if s := c.PostForm("format"); s != "" {
		f, err := models.ParseFormat(s)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid format", err)
			return
		}
		format = f
	}

	fh, err := c.FormFile("file")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "file is required", err)
		return
	}

	// Wrong extension is rejected before the upload is even opened.
	name := filepath.Base(fh.Filename)
	if err := ingestion.ValidateFileName(name, format); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid file type, please upload the correct file format", err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "failed to read file", err)
		return
	}
	defer func() { _ = f.Close() }()

	up, err := h.svc.Load(c.Request.Context(), name, format, f)
	if err != nil {
		if errors.Is(err, ingestion.ErrInvalidExtension) {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid file type, please upload the correct file format", err)
			return
		}
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "failed to read file", err)
		return
	}

	c.JSON(http.StatusCreated, uploadResponse(up))
}

// GetLog handles GET /api/v1/logs.
//
// GetLog godoc
// @Summary      Current log
// @Description  Returns metadata and available days of the loaded log
// @Tags         logs
// @Produce      json
// @Success      200  {object}  dto.UploadResponse  "Success"
// @Failure      404  {object}  dto.ErrorResponse   "No log loaded"
// @Router       /api/v1/logs [get]
func (h *Handler) GetLog(c *gin.Context) {
	up, err := h.svc.Current(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, http.StatusNotFound, "no log file loaded", err)
		return
	}
	c.JSON(http.StatusOK, uploadResponse(up))
}

// DeleteLog handles DELETE /api/v1/logs.
//
// DeleteLog godoc
// @Summary      Remove the log
// @Description  Discards the loaded log and everything derived from it
// @Tags         logs
// @Success      204  "Removed"
// @Failure      404  {object}  dto.ErrorResponse  "No log loaded"
// @Router       /api/v1/logs [delete]
func (h *Handler) DeleteLog(c *gin.Context) {
	if !h.svc.Remove(c.Request.Context()) {
		middleware.AbortWithError(c, http.StatusNotFound, "no log file loaded", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAnalytics handles GET /api/v1/analytics.
//
// GetAnalytics godoc
// @Summary      Analytics bundle
// @Description  Totals, rankings, average prices, player details and daily counts over an inclusive date range
// @Tags         analytics
// @Produce      json
// @Param        start          query     string  false  "First day, YYYY-MM-DD" example(2024-01-01)
// @Param        end            query     string  false  "Last day, YYYY-MM-DD" example(2024-01-31)
// @Param        top            query     int     false  "Length of ranked views" example(5)
// @Param        profit_order   query     string  false  "ascending or descending" example(ascending)
// @Param        only_negative  query     bool    false  "Keep only negative percent change"
// @Success      200            {object}  dto.AnalyticsResponse  "Success"
// @Failure      400            {object}  dto.ErrorResponse      "Bad Request"
// @Failure      409            {object}  dto.ErrorResponse      "No log loaded"
// @Router       /api/v1/analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	var in dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&in); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	up, b, r, ok := h.aggregate(c, in)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewAnalyticsResponse(up.FileName, up.Format, r, b))
}

// GetPlayer handles GET /api/v1/players/:name.
//
// GetPlayer godoc
// @Summary      Player lookup
// @Description  Exact, case-sensitive player match over the selected range
// @Tags         analytics
// @Produce      json
// @Param        name   path      string  true   "Player name" example(Alice)
// @Param        start  query     string  false  "First day, YYYY-MM-DD"
// @Param        end    query     string  false  "Last day, YYYY-MM-DD"
// @Success      200    {object}  dto.PlayerResponse  "Success"
// @Failure      404    {object}  dto.ErrorResponse   "No player found"
// @Failure      409    {object}  dto.ErrorResponse   "No log loaded"
// @Router       /api/v1/players/{name} [get]
func (h *Handler) GetPlayer(c *gin.Context) {
	var in dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&in); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	_, b, _, ok := h.aggregate(c, in)
	if !ok {
		return
	}

	res := view.LookupPlayer(b, c.Param("name"))
	if !res.Found {
		middleware.AbortWithError(c, http.StatusNotFound, "no player found with that name", nil)
		return
	}
	c.JSON(http.StatusOK, dto.PlayerResponse{
		Player: res.Stats.Player,
		PlayerDetail: dto.PlayerDetail{
			Bought:      res.Stats.Bought,
			Sold:        res.Stats.Sold,
			TotalSpent:  res.Stats.TotalSpent,
			TotalEarned: res.Stats.TotalEarned,
		},
	})
}

// ListItems handles GET /api/v1/items.
//
// ListItems godoc
// @Summary      Item price table
// @Description  Searchable, sortable, paginated item price table
// @Tags         items
// @Produce      json
// @Param        start   query     string  false  "First day, YYYY-MM-DD"
// @Param        end     query     string  false  "Last day, YYYY-MM-DD"
// @Param        search  query     string  false  "Case-insensitive name filter"
// @Param        sort    query     string  false  "name|avg_buy|avg_sell|highest_price|lowest_price|percent_difference"
// @Param        desc    query     bool    false  "Sort descending"
// @Param        page    query     int     false  "1-based page"
// @Param        rows    query     int     false  "5, 10 or 20"
// @Success      200     {object}  view.Page          "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      409     {object}  dto.ErrorResponse  "No log loaded"
// @Router       /api/v1/items [get]
func (h *Handler) ListItems(c *gin.Context) {
	var in dto.AnalyticsQuery
	var state view.TableState
	if err := c.ShouldBindQuery(&in); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}
	if err := c.ShouldBindQuery(&state); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid table parameters", err)
		return
	}

	_, b, _, ok := h.aggregate(c, in)
	if !ok {
		return
	}

	page, err := view.QueryItems(view.ItemPriceRows(b), state)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid table parameters", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ExportItems handles GET /api/v1/items/export.
//
// ExportItems godoc
// @Summary      Export item prices
// @Description  Downloads the item price table as CSV or XLSX
// @Tags         items
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start   query     string  false  "First day, YYYY-MM-DD"
// @Param        end     query     string  false  "Last day, YYYY-MM-DD"
// @Param        format  query     string  false  "csv or xlsx" example(csv)
// @Success      200     {file}    file               "Export"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      409     {object}  dto.ErrorResponse  "No log loaded"
// @Router       /api/v1/items/export [get]
func (h *Handler) ExportItems(c *gin.Context) {
	kind, err := export.ParseKind(c.Query("format"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid export format", err)
		return
	}

	var in dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&in); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	_, b, _, ok := h.aggregate(c, in)
	if !ok {
		return
	}

	c.Header("Content-Type", kind.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="item_prices.%s"`, kind))
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, kind, view.ItemPriceRows(b)); err != nil {
		_ = c.Error(err)
	}
}

// GetSeries handles GET /api/v1/series.
//
// GetSeries godoc
// @Summary      Transactions per day
// @Description  Daily transaction counts with a trailing moving average
// @Tags         analytics
// @Produce      json
// @Param        start   query     string  false  "First day, YYYY-MM-DD"
// @Param        end     query     string  false  "Last day, YYYY-MM-DD"
// @Param        window  query     int     false  "Moving average window" example(7)
// @Success      200     {object}  dto.SeriesResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse   "Bad Request"
// @Failure      409     {object}  dto.ErrorResponse   "No log loaded"
// @Router       /api/v1/series [get]
func (h *Handler) GetSeries(c *gin.Context) {
	var in dto.SeriesQuery
	if err := c.ShouldBindQuery(&in); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	_, b, _, ok := h.aggregate(c, in.AnalyticsQuery)
	if !ok {
		return
	}

	window := in.Window
	if window == 0 {
		window = h.opts.MovingAverageWindow
	}
	c.JSON(http.StatusOK, dto.SeriesResponse{Window: window, Points: view.MovingAverage(b.TransactionsByDay, window)})
}

// aggregate runs the aggregation for in. On failure it has already written
// the response.
func (h *Handler) aggregate(c *gin.Context, in dto.AnalyticsQuery) (*storage.Upload, *models.Bundle, models.DateRange, bool) {
	var order analytics.ProfitOrder
	if in.ProfitOrder != "" {
		var err error
		if order, err = analytics.ParseProfitOrder(in.ProfitOrder); err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid profit_order", err)
			return nil, nil, models.DateRange{}, false
		}
	}
	onlyNegative := h.opts.OnlyNegative
	if in.OnlyNegative != nil {
		onlyNegative = *in.OnlyNegative
	}

	res, err := h.svc.GetAnalytics(c.Request.Context(), service.AnalyticsRequest{
		Start:  in.Start,
		End:    in.End,
		TopN:   in.Top,
		Profit: analytics.ProfitRanking{Order: order, OnlyNegative: onlyNegative},
	})
	switch {
	case errors.Is(err, service.ErrNoLogLoaded):
		middleware.AbortWithError(c, http.StatusConflict, "no log file loaded", err)
	case errors.Is(err, service.ErrInvalidRange):
		middleware.AbortWithError(c, http.StatusBadRequest, "start must not be after end", nil)
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to compute analytics", err)
	default:
		return res.Upload, res.Bundle, res.Range, true
	}
	return nil, nil, models.DateRange{}, false
}

func uploadResponse(up *storage.Upload) dto.UploadResponse {
	return dto.UploadResponse{
		ID:           up.ID,
		FileName:     up.FileName,
		Format:       string(up.Format),
		LoadedAt:     up.LoadedAt,
		Lines:        up.Lines,
		Skipped:      up.Skipped,
		Transactions: up.Buckets.Count(),
		Days:         up.Buckets.SortedDays(),
	}
}
