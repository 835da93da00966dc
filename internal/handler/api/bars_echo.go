package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"EODFeed/internal/domain/models"
	domrepo "EODFeed/internal/domain/repository"
	"EODFeed/internal/usecase"
	xhttp "EODFeed/pkg/http"
	applogger "EODFeed/pkg/logger"
	"EODFeed/pkg/util"
)

// BarsEchoHandler serves resampled OHLCV history over HTTP.
type BarsEchoHandler struct {
	watchlist *usecase.Watchlist
	l         *applogger.Logger
}

func NewBarsEchoHandler(watchlist *usecase.Watchlist, l *applogger.Logger) *BarsEchoHandler {
	return &BarsEchoHandler{watchlist: watchlist, l: l}
}

// RegisterRoutes registers bar endpoints.
func (h *BarsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/bars", h.GetBars)
	e.GET("/api/bars/:symbol", h.GetSymbolBars)
}

// GetBars returns one result per requested symbol. Symbols that failed to
// load still appear in the response, carrying warnings instead of bars.
func (h *BarsEchoHandler) GetBars(c echo.Context) error {
	req := new(models.BarsRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	symbols := splitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "symbols",
			Message: "symbols must name at least one symbol",
		}})
	}

	p, errs := batchParams(req.TF, req.Date, req.Period)
	if errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	results := h.watchlist.LoadAll(c.Request().Context(), symbols, p)

	// keep request order in the response
	rows := make([]models.LoadResult, 0, len(symbols))
	for _, sym := range symbols {
		rows = append(rows, results[sym])
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// GetSymbolBars returns history for a single symbol. A failed load is still
// a 200 with warnings so clients can distinguish "no data" from a broken API.
func (h *BarsEchoHandler) GetSymbolBars(c echo.Context) error {
	req := new(models.SymbolBarsRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "symbol",
			Message: "symbol is required",
		}})
	}

	p, errs := batchParams(req.TF, req.Date, req.Period)
	if errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	res := h.watchlist.LoadOne(c.Request().Context(), symbol, p)
	return xhttp.SuccessResponse(c, res)
}

func batchParams(tf, date string, period int) (usecase.BatchParams, []xhttp.ValidationError) {
	timeframe, err := domrepo.ParseTimeframe(tf)
	if err != nil {
		return usecase.BatchParams{}, []xhttp.ValidationError{{
			Code:    "ERR_ONEOF",
			Field:   "tf",
			Message: err.Error(),
		}}
	}

	p := usecase.BatchParams{Timeframe: timeframe, Period: period}
	if date != "" {
		end, ok := util.ParseDate(date)
		if !ok {
			return usecase.BatchParams{}, []xhttp.ValidationError{{
				Code:    "ERR_DATETIME",
				Field:   "date",
				Message: "date must match the layout 2006-01-02",
			}}
		}
		p.EndDate = end
	}
	return p, nil
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
