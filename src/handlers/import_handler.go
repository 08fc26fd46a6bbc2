// backend/src/handlers/import_handler.go
package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/go-chi/chi/v5"
	"github.com/misehero/HeroWizzard-version2/src/config"
	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/models"
	"github.com/misehero/HeroWizzard-version2/src/parsers"
	"github.com/misehero/HeroWizzard-version2/src/security/validation"
	"github.com/misehero/HeroWizzard-version2/src/services"
	"github.com/misehero/HeroWizzard-version2/src/utils"
)

type ImportHandler struct {
	importService  services.ImportService
	invoiceService services.InvoiceService
}

func NewImportHandler(importService services.ImportService, invoiceService services.InvoiceService) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		invoiceService: invoiceService,
	}
}

// receiveCSVUpload runs the shared multipart plumbing: size limits, declared
// and detected content type checks. The returned file is positioned at the
// start.
func receiveCSVUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.FromContext(r.Context()).Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to process upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return nil, "", false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.FromContext(r.Context()).Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return nil, "", false
	}

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		file.Close()
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return nil, "", false
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		file.Close()
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		file.Close()
		logger.FromContext(r.Context()).Warn("File content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	return file, fileHeader.Filename, true
}

// HandleImportStatement ingests one bank-statement CSV.
func (h *ImportHandler) HandleImportStatement(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := receiveCSVUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	batch, err := h.importService.ImportCSV(file, filename, actorName(r.Context()))
	if err != nil {
		if errors.Is(err, parsers.ErrUnknownFormat) || errors.Is(err, parsers.ErrDecodeFailed) || errors.Is(err, services.ErrParsingFailed) {
			// The failed batch is still returned so the client can show the
			// audit record.
			utils.SendJSONResponse(w, batch, http.StatusUnprocessableEntity)
			return
		}
		logger.FromContext(r.Context()).Error("Statement import failed", "filename", filename, "error", err)
		utils.SendJSONError(w, "Import failed", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, batch, http.StatusOK)
}

// HandleImportInvoices ingests an iDoklad invoice CSV.
func (h *ImportHandler) HandleImportInvoices(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := receiveCSVUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	batch, err := h.invoiceService.ImportIDoklad(file, filename, actorName(r.Context()))
	if err != nil {
		if errors.Is(err, parsers.ErrUnknownFormat) || errors.Is(err, parsers.ErrDecodeFailed) || errors.Is(err, services.ErrParsingFailed) {
			utils.SendJSONResponse(w, batch, http.StatusUnprocessableEntity)
			return
		}
		logger.FromContext(r.Context()).Error("Invoice import failed", "filename", filename, "error", err)
		utils.SendJSONError(w, "Import failed", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, batch, http.StatusOK)
}

// HandleListBatches returns recent import batches, newest first.
func (h *ImportHandler) HandleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := model.ListImportBatches(database.DB, 0)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list import batches", "error", err)
		utils.SendJSONError(w, "Failed to list import batches", http.StatusInternalServerError)
		return
	}
	if batches == nil {
		batches = []models.ImportBatch{}
	}
	utils.SendJSONResponse(w, batches, http.StatusOK)
}

// HandleListInvoices returns imported invoices, optionally filtered by the
// variable symbol used to pair them with bank transactions.
func (h *ImportHandler) HandleListInvoices(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	invoices, err := model.ListInvoices(database.DB, r.URL.Query().Get("variabilni_symbol"), limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list invoices", "error", err)
		utils.SendJSONError(w, "Failed to list invoices", http.StatusInternalServerError)
		return
	}
	if invoices == nil {
		invoices = []models.IDokladInvoice{}
	}
	utils.SendJSONResponse(w, invoices, http.StatusOK)
}

// HandleGetBatch returns one batch with its row-level errors and warnings.
func (h *ImportHandler) HandleGetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		utils.SendJSONError(w, "Invalid batch ID", http.StatusBadRequest)
		return
	}
	batch, err := model.GetImportBatchByID(database.DB, id)
	if err != nil {
		if errors.Is(err, model.ErrBatchNotFound) {
			utils.SendJSONError(w, "Import batch not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to load import batch", "batchID", id, "error", err)
		utils.SendJSONError(w, "Failed to load import batch", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, batch, http.StatusOK)
}
