package api

import (
	"errors"
	"net/http"
	"time"

	"impulsescan/internal/domain/models"
	"impulsescan/internal/export"
	"impulsescan/internal/service/binance"
	"impulsescan/internal/usecase"
	xhttp "impulsescan/pkg/http"
	xlogger "impulsescan/pkg/logger"
	"impulsescan/pkg/util"

	"github.com/labstack/echo/v4"
)

// ScanEchoHandler exposes the scan pipeline over HTTP.
type ScanEchoHandler struct {
	logger  *xlogger.Logger
	scanner *usecase.Scanner
}

func NewScanEchoHandler(logger *xlogger.Logger, scanner *usecase.Scanner) *ScanEchoHandler {
	return &ScanEchoHandler{logger: logger, scanner: scanner}
}

func (h *ScanEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scan", h.Scan)
	g.POST("/scan/export", h.Export)
	e.GET("/healthz", h.Health)
}

type scanResultView struct {
	Symbol   string  `json:"symbol"`
	Date     string  `json:"date"`
	Growth   float64 `json:"growth"`
	Impulses int     `json:"impulses"`
}

type warningView struct {
	Symbol  string `json:"symbol"`
	Date    string `json:"date"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type reportView struct {
	Results           []scanResultView `json:"results"`
	Warnings          []warningView    `json:"warnings"`
	PairsScanned      int              `json:"pairs_scanned"`
	PairsPassedGrowth int              `json:"pairs_passed_growth"`
	DurationSeconds   float64          `json:"duration_seconds"`
}

// Scan runs a synchronous scan and returns the report as JSON.
func (h *ScanEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params, verr := paramsFromRequest(req)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.scanner.Scan(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("scan failed", xlogger.Error(err))
		return h.scanError(c, err)
	}
	return xhttp.SuccessResponse(c, viewFromReport(report))
}

// Export runs a scan and streams the result set as a CSV attachment.
func (h *ScanEchoHandler) Export(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params, verr := paramsFromRequest(req)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.scanner.Scan(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("scan export failed", xlogger.Error(err))
		return h.scanError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteCSV(c.Response(), report.Results)
}

func (h *ScanEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *ScanEchoHandler) scanError(c echo.Context, err error) error {
	if errors.Is(err, binance.ErrCatalogUnavailable) {
		appErr := xhttp.NewAppError("ERR_CATALOG_UNAVAILABLE", "",
			"instrument catalog could not be resolved", http.StatusBadGateway).WithError(err)
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.InternalServerErrorResponse(c)
}

func paramsFromRequest(req *models.ScanRequest) (usecase.ScanParams, interface{}) {
	from, _ := util.ParseDate(req.From)
	to, _ := util.ParseDate(req.To)
	if to.Before(from) {
		return usecase.ScanParams{}, []xhttp.ValidationError{{
			Code:    "ERR_RANGE",
			Field:   "to",
			Message: "to must not precede from",
		}}
	}
	return usecase.ScanParams{
		From:             from,
		To:               to,
		GrowthThreshold:  req.GrowthThreshold,
		ImpulseWindow:    req.ImpulseWindow,
		ImpulseThreshold: req.ImpulseThreshold,
		Distinct:         req.Distinct,
		Symbols:          req.Symbols,
	}, nil
}

func viewFromReport(report *models.Report) *reportView {
	view := &reportView{
		Results:           make([]scanResultView, 0, len(report.Results)),
		Warnings:          make([]warningView, 0, len(report.Warnings)),
		PairsScanned:      report.PairsScanned,
		PairsPassedGrowth: report.PairsPassedGrowth,
		DurationSeconds:   report.Duration.Round(time.Millisecond).Seconds(),
	}
	for _, r := range report.Results {
		view.Results = append(view.Results, scanResultView{
			Symbol:   r.Symbol,
			Date:     util.FormatDate(r.Date),
			Growth:   r.RoundedGrowth(),
			Impulses: r.Impulses,
		})
	}
	for _, w := range report.Warnings {
		view.Warnings = append(view.Warnings, warningView{
			Symbol:  w.Symbol,
			Date:    util.FormatDate(w.Date),
			Kind:    w.Kind,
			Message: w.Message,
		})
	}
	return view
}
