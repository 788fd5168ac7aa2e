package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studentwallet/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	exportService services.ExportServicer
	loc           *time.Location
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportServicer, loc *time.Location) *ExportHandler {
	return &ExportHandler{exportService: exportService, loc: loc}
}

// ExportTransactions streams an XLSX workbook of transactions in a range.
// @Summary     Export transactions
// @Description Download transactions between two dates as an Excel workbook
// @Tags        export
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       from query string true "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to   query string true "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success     200 {file} file "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /export/transactions [get]
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c, h.loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.exportService.WriteTransactionsXLSX(&buf, userID, from, to); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("giao-dich_%s_%s.xlsx", from.In(h.loc).Format("20060102"), to.In(h.loc).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
