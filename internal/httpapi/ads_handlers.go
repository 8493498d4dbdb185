package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"

	"jobsearcher/internal/store"
)

type AdsHandler struct {
	DB *sql.DB
}

// List serves stored ads ordered by final score.
func (h AdsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ads, err := store.ListAds(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if ads == nil {
		ads = []store.AdRow{}
	}
	writeJSON(w, ads)
}
