package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/db"
)

type bankInfo struct {
	Name   string    `json:"name"`
	Driver db.Driver `json:"driver"`
}

// GET /banks
func ListBanksHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := []bankInfo{}
		for _, name := range reg.Names() {
			loc, _ := reg.Location(name)
			out = append(out, bankInfo{Name: name, Driver: loc.Driver})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /banks  { "name": "...", "driver": "sqlite|postgres", "dsn": "..." }
func AddBankHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name   string `json:"name"`
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "bad json")
			return
		}
		driver, err := db.ParseDriver(req.Driver)
		if err != nil {
			writeError(w, &bank.ValidationError{Fields: []bank.FieldError{{Field: "driver", Message: err.Error()}}})
			return
		}
		if strings.TrimSpace(req.DSN) == "" {
			writeError(w, &bank.ValidationError{Fields: []bank.FieldError{{Field: "dsn", Message: "is required"}}})
			return
		}
		name := strings.TrimSpace(req.Name)
		if err := reg.Add(r.Context(), name, db.Location{Driver: driver, DSN: req.DSN}); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, bankInfo{Name: name, Driver: driver})
	}
}

// DELETE /banks/{bank}
func RemoveBankHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := reg.Remove(chi.URLParam(r, "bank")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// storeFor resolves the {bank} path parameter, writing the error response
// itself when the bank cannot be opened.
func storeFor(w http.ResponseWriter, r *http.Request, reg *bank.Registry) (*bank.SQLStore, bool) {
	s, err := reg.Store(r.Context(), chi.URLParam(r, "bank"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}
