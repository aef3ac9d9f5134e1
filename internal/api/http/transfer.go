package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/formats"
	"github.com/mind-engage/qbank/internal/moodle"
	"github.com/mind-engage/qbank/internal/moodle/parser"
)

const maxUpload = 32 << 20

// POST /banks/{bank}/import (multipart: file=quiz.xml)
func ImportHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		f, _, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "file required")
			return
		}
		defer f.Close()

		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}
		res, err := moodle.Import(r.Context(), s, f)
		var perr *parser.Error
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, res)
		case errors.As(err, &perr):
			writeJSON(w, http.StatusBadRequest, res)
		default:
			writeJSON(w, http.StatusInternalServerError, res)
		}
	}
}

// POST /banks/{bank}/export?format=moodle|docx  { "ids": [..] }
func ExportHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(r.URL.Query().Get("format"))
		if format == "" {
			format = "moodle"
		}
		exp, ok := formats.Lookup(format)
		if !ok {
			badRequest(w, fmt.Sprintf("unknown format %q (have %s)", format, strings.Join(formats.Names(), ", ")))
			return
		}
		ids, err := decodeIDs(r)
		if err != nil || len(ids) == 0 {
			badRequest(w, "ids required")
			return
		}
		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}

		// buffered so a failure can still be reported with a status code
		var buf bytes.Buffer
		if err := exp.Export(r.Context(), s, ids, &buf); err != nil {
			writeError(w, err)
			return
		}
		name := chi.URLParam(r, "bank") + "-questions" + exp.Ext()
		w.Header().Set("Content-Type", exp.ContentType())
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = buf.WriteTo(w)
	}
}
