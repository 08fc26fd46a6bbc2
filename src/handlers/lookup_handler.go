// backend/src/handlers/lookup_handler.go
package handlers

import (
	"net/http"

	"github.com/misehero/HeroWizzard-version2/src/database"
	"github.com/misehero/HeroWizzard-version2/src/logger"
	"github.com/misehero/HeroWizzard-version2/src/model"
	"github.com/misehero/HeroWizzard-version2/src/utils"
)

// LookupHandler serves the reference tables the categorization UI needs:
// projects, products with their subgroups, and the Druh/Detail combinations.
type LookupHandler struct{}

func NewLookupHandler() *LookupHandler {
	return &LookupHandler{}
}

func (h *LookupHandler) HandleGetLookups(w http.ResponseWriter, r *http.Request) {
	projects, err := model.ListProjects(database.DB)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load projects", "error", err)
		utils.SendJSONError(w, "Failed to load lookups", http.StatusInternalServerError)
		return
	}
	products, err := model.ListProducts(database.DB)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load products", "error", err)
		utils.SendJSONError(w, "Failed to load lookups", http.StatusInternalServerError)
		return
	}
	subgroups, err := model.ListProductSubgroups(database.DB, r.URL.Query().Get("product_id"))
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load product subgroups", "error", err)
		utils.SendJSONError(w, "Failed to load lookups", http.StatusInternalServerError)
		return
	}
	costDetails, err := model.ListCostDetails(database.DB, r.URL.Query().Get("druh_type"))
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load cost details", "error", err)
		utils.SendJSONError(w, "Failed to load lookups", http.StatusInternalServerError)
		return
	}

	payload := map[string]interface{}{
		"projects":     projects,
		"products":     products,
		"subgroups":    subgroups,
		"cost_details": costDetails,
	}

	// Lookup tables change rarely, so a conditional GET saves the UI a
	// re-download on every page load.
	if etag, err := utils.GenerateETag(payload); err == nil {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	utils.SendJSONResponse(w, payload, http.StatusOK)
}
