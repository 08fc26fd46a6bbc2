// backend/src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/models"
	"github.com/misehero/HeroWizzard-version2/src/security/validation"
	"github.com/misehero/HeroWizzard-version2/src/utils"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct{}

func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

func parseTransactionFilter(r *http.Request) (model.TransactionFilter, error) {
	q := r.URL.Query()
	f := model.TransactionFilter{
		Status:      models.Status(q.Get("status")),
		PrijemVydaj: models.PrijemVydaj(q.Get("prijem_vydaj")),
		Kmen:        models.Kmen(q.Get("kmen")),
		ProjektID:   q.Get("projekt_id"),
		BatchID:     q.Get("batch_id"),
		Search:      q.Get("search"),
	}
	if v := q.Get("date_from"); v != "" {
		t, err := validation.ValidateDateString(v, "date_from")
		if err != nil {
			return f, err
		}
		f.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := validation.ValidateDateString(v, "date_to")
		if err != nil {
			return f, err
		}
		f.DateTo = &t
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if f.Limit == 0 {
		f.Limit = 200
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Offset = n
		}
	}
	return f, nil
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := model.ListTransactions(database.DB, filter)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list transactions", "error", err)
		utils.SendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	utils.SendJSONResponse(w, txs, http.StatusOK)
}

func (h *TransactionHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "txID"))
	if err != nil {
		utils.SendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}
	tx, err := model.GetTransactionByID(database.DB, id)
	if err != nil {
		if errors.Is(err, model.ErrTransactionNotFound) {
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to load transaction", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, tx, http.StatusOK)
}

// categorizationPatch carries the app-owned fields a user may edit. Pointer
// fields distinguish "not sent" from explicit zero values.
type categorizationPatch struct {
	Status           *string          `json:"status"`
	PrijemVydaj      *string          `json:"prijem_vydaj"`
	VlastniNevlastni *string          `json:"vlastni_nevlastni"`
	Dane             *bool            `json:"dane"`
	Druh             *string          `json:"druh"`
	Detail           *string          `json:"detail"`
	Kmen             *string          `json:"kmen"`
	MhPct            *decimal.Decimal `json:"mh_pct"`
	SkPct            *decimal.Decimal `json:"sk_pct"`
	XpPct            *decimal.Decimal `json:"xp_pct"`
	FrPct            *decimal.Decimal `json:"fr_pct"`
	ProjektID        *string          `json:"projekt_id"`
	ProduktID        *string          `json:"produkt_id"`
	PodskupinaID     *string          `json:"podskupina_id"`
	VlastniPoznamka  *string          `json:"vlastni_poznamka"`
	IsActive         *bool            `json:"is_active"`
}

func (p *categorizationPatch) applyTo(t *models.Transaction) {
	if p.Status != nil {
		t.Status = models.Status(*p.Status)
	}
	if p.PrijemVydaj != nil {
		t.PrijemVydaj = models.PrijemVydaj(*p.PrijemVydaj)
	}
	if p.VlastniNevlastni != nil {
		t.VlastniNevlastni = models.VlastniNevlastni(*p.VlastniNevlastni)
	}
	if p.Dane != nil {
		t.Dane = *p.Dane
	}
	if p.Druh != nil {
		t.Druh = validation.SanitizeText(*p.Druh)
	}
	if p.Detail != nil {
		t.Detail = validation.SanitizeText(*p.Detail)
	}
	if p.Kmen != nil {
		t.Kmen = models.Kmen(*p.Kmen)
	}
	if p.MhPct != nil {
		t.MhPct = *p.MhPct
	}
	if p.SkPct != nil {
		t.SkPct = *p.SkPct
	}
	if p.XpPct != nil {
		t.XpPct = *p.XpPct
	}
	if p.FrPct != nil {
		t.FrPct = *p.FrPct
	}
	if p.ProjektID != nil {
		t.ProjektID = *p.ProjektID
	}
	if p.ProduktID != nil {
		t.ProduktID = *p.ProduktID
	}
	if p.PodskupinaID != nil {
		t.PodskupinaID = *p.PodskupinaID
	}
	if p.VlastniPoznamka != nil {
		t.VlastniPoznamka = validation.SanitizeText(*p.VlastniPoznamka)
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
}

// HandleUpdateTransaction edits the app-owned columns of one transaction.
// Bank columns are immutable after import; edits that break the tribe split
// or the P/V sign invariant are rejected.
func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "txID"))
	if err != nil {
		utils.SendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	tx, err := model.GetTransactionByID(database.DB, id)
	if err != nil {
		if errors.Is(err, model.ErrTransactionNotFound) {
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to load transaction", http.StatusInternalServerError)
		return
	}

	var patch categorizationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	patch.applyTo(tx)
	if err := tx.Validate(); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if tx.Status == models.StatusImportovano {
		tx.Status = models.StatusUpraveno
	}

	tx.UpdatedBy = actorName(r.Context())
	if err := model.UpdateTransactionCategorization(database.DB, tx); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update transaction", "txID", id, "error", err)
		utils.SendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, tx, http.StatusOK)
}
