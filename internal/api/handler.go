package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/middleware"
	"github.com/guttosm/stockpulse/internal/service"
	"github.com/guttosm/stockpulse/internal/storage"
)

const (
	reportPath = "/api/v1/report"
	formFile   = "file"
)

// Handler provides HTTP handlers for upload and report endpoints.
//
// Responsibilities:
//   - Validate incoming form fields and query parameters
//   - Delegate to the report service
//   - Map service errors to HTTP status codes and ErrorResponse bodies
type Handler struct {
	svc           service.ReportService
	maxBytes      int64
	defaultWindow int
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc: report service used by every endpoint.
//   - maxBytes: upload size limit; requests above it get 413.
//   - defaultWindow: window placed in the report link returned after an upload.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.ReportService, maxBytes int64, defaultWindow int) *Handler {
	if defaultWindow <= 0 {
		defaultWindow = 30
	}
	return &Handler{svc: svc, maxBytes: maxBytes, defaultWindow: defaultWindow}
}

// Upload handles POST /api/v1/uploads.
//
// Upload godoc
// @Summary      Upload a price file
// @Description  Stores a CSV with Date and Close columns (Volume optional) and redirects to its report
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      302   {object}  dto.UploadResponse  "Stored, see Location"
// @Failure      400   {object}  dto.ErrorResponse   "Bad Request"
// @Failure      413   {object}  dto.ErrorResponse   "Payload Too Large"
// @Failure      500   {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/uploads [post]
func (h *Handler) Upload(c *gin.Context) {
	// ─── Enforce size limit ───────────────────────────────────
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	// ─── Read multipart "file" field ──────────────────────────
	fh, err := c.FormFile(formFile)
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse("file too large", err))
			return
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("file is required", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("cannot read file", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("cannot read file", err))
		return
	}

	// ─── Store through the service ────────────────────────────
	name, err := h.svc.Upload(c.Request.Context(), fh.Filename, data)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// ─── Redirect to the report ───────────────────────────────
	resp := dto.UploadResponse{Filename: name, ReportURL: reportURL(name, h.defaultWindow)}
	c.Header("Location", resp.ReportURL)
	c.JSON(http.StatusFound, resp)
}

// GetReport handles GET /api/v1/report.
//
// Query Parameters:
//   - filename (string, required): name returned by the upload endpoint.
//   - window (int, optional): moving-average window, defaults to the configured value.
//
// GetReport godoc
// @Summary      Analyze an uploaded file
// @Description  Returns statistics, moving average, returns, volatility and chart data for an upload
// @Tags         report
// @Produce      json
// @Param        filename  query     string  true   "Uploaded file name"  example(AAPL.csv)
// @Param        window    query     int     false  "Moving-average window"  example(30)
// @Success      200       {object}  dto.ReportResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse   "Not Found"
// @Failure      500       {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/report [get]
func (h *Handler) GetReport(c *gin.Context) {
	req, ok := h.bindReportRequest(c)
	if !ok {
		return
	}

	rep, err := h.svc.Report(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReportResponse(rep, ""))
}

// ExplainReport handles POST /api/v1/report.
//
// Fields (form body or query string):
//   - filename, window: as for GetReport.
//   - explain (string, optional): "deep" or "short" (default).
//   - ticker (string, optional): symbol mentioned in the prompt.
//
// ExplainReport godoc
// @Summary      Analyze an upload and explain it
// @Description  Same as GET /api/v1/report plus a plain-language explanation from the language model
// @Tags         report
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        filename  formData  string  true   "Uploaded file name"
// @Param        window    formData  int     false  "Moving-average window"
// @Param        explain   formData  string  false  "Explanation depth"  Enums(deep, short)
// @Param        ticker    formData  string  false  "Ticker symbol"
// @Success      200       {object}  dto.ReportResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse   "Not Found"
// @Failure      502       {object}  dto.ErrorResponse   "Explainer failed"
// @Router       /api/v1/report [post]
func (h *Handler) ExplainReport(c *gin.Context) {
	req, ok := h.bindReportRequest(c)
	if !ok {
		return
	}

	// ─── Validate "explain" depth ─────────────────────────────
	var deep bool
	switch strings.ToLower(strings.TrimSpace(field(c, "explain"))) {
	case "", "short":
	case "deep":
		deep = true
	default:
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("explain must be 'deep' or 'short'", nil))
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(field(c, "ticker")))

	rep, err := h.svc.Explain(c.Request.Context(), service.ExplainRequest{ReportRequest: req, Ticker: ticker, Deep: deep})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReportResponse(rep, ticker))
}

func (h *Handler) bindReportRequest(c *gin.Context) (service.ReportRequest, bool) {
	// ─── Validate "filename" ──────────────────────────────────
	filename := strings.TrimSpace(field(c, "filename"))
	if filename == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("filename is required", nil))
		return service.ReportRequest{}, false
	}

	// ─── Parse optional "window" ──────────────────────────────
	var window int
	if s := strings.TrimSpace(field(c, "window")); s != "" {
		w, err := strconv.Atoi(s)
		if err != nil || w < 1 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("window must be a positive integer", err))
			return service.ReportRequest{}, false
		}
		window = w
	}
	return service.ReportRequest{Filename: filename, Window: window}, true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid input", err))
	case errors.Is(err, storage.ErrUploadNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("upload not found", err))
	case errors.Is(err, service.ErrExplainerUnavailable):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("explanation failed", err))
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to build report", err)
	}
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// field reads a form value, falling back to the query string.
func field(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

func reportURL(filename string, window int) string {
	q := url.Values{}
	q.Set("filename", filename)
	q.Set("window", strconv.Itoa(window))
	return fmt.Sprintf("%s?%s", reportPath, q.Encode())
}
