package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/config"
	"crmforms/logging"
	"crmforms/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var filenameReplacer = strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "")

// sanitizeFilename makes s safe to use as a download filename.
func sanitizeFilename(s string) string {
	return filenameReplacer.Replace(s)
}

// sendAttachment writes body as a file download. filename must already be
// sanitized.
func sendAttachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	h := e.Response.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}

func companyInfo(cfg *config.Config) services.CompanyInfo {
	return services.CompanyInfo{
		Name:    cfg.CompanyName,
		Address: cfg.CompanyAddress,
		Email:   cfg.CompanyEmail,
	}
}

func pricingOptions(cfg *config.Config) services.PricingOptions {
	return services.PricingOptions{ProformaTaxExclusive: cfg.ProformaTaxExclusive}
}

// HandleProformaExportPDF streams a proforma invoice as a PDF download.
func HandleProformaExportPDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing proforma ID")
		}

		data, err := services.BuildProformaExportData(app, id, companyInfo(cfg), pricingOptions(cfg))
		if err != nil {
			logging.L().Warnw("proforma pdf: load failed", "id", id, "error", err)
			return e.String(http.StatusNotFound, "Proforma invoice not found")
		}

		pdf, err := services.GenerateProformaPDF(data)
		if err != nil {
			logging.L().Errorw("proforma pdf: render failed", "doc_number", data.DocNumber, "error", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return sendAttachment(e, "application/pdf", sanitizeFilename(data.DocNumber)+".pdf", pdf)
	}
}

// HandleCustomerExportExcel downloads all customers as an Excel workbook.
func HandleCustomerExportExcel(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.BuildCustomerExportData(app, cfg.CompanyName)
		if err != nil {
			logging.L().Errorw("customer export: load failed", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to load customers")
		}

		xlsx, err := services.GenerateCustomerExcel(data)
		if err != nil {
			logging.L().Errorw("customer export: render failed", "rows", len(data.Rows), "error", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		name := "Customers_" + sanitizeFilename(cfg.CompanyName) + "_" + time.Now().Format("2006-01-02") + ".xlsx"
		return sendAttachment(e, xlsxContentType, name, xlsx)
	}
}
