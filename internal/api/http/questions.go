package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mind-engage/qbank/internal/bank"
)

// GET /banks/{bank}/questions?q=&limit=&offset=
// Without a limit every matching question is returned.
func ListQuestionsHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}
		list, err := s.List(r.Context(), bank.ListOpts{
			Q:      strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 0),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []bank.Overview{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /banks/{bank}/questions/{id}
func GetQuestionHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "bad id")
			return
		}
		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}
		q, err := s.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bank.DraftOf(q))
	}
}

func decodeDraft(r *http.Request) (bank.Question, error) {
	var d bank.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		return bank.Question{}, &bank.ValidationError{Fields: []bank.FieldError{{Field: "body", Message: "bad json"}}}
	}
	return d.Question()
}

// POST /banks/{bank}/questions
func CreateQuestionHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}
		q, err := decodeDraft(r)
		if err != nil {
			writeError(w, err)
			return
		}
		id, err := s.Save(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

// PUT /banks/{bank}/questions/{id}
func UpdateQuestionHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "bad id")
			return
		}
		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}
		q, err := decodeDraft(r)
		if err != nil {
			writeError(w, err)
			return
		}
		q.ID = id
		if err := s.Update(r.Context(), q); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /banks/{bank}/questions/{id}/duplicate
func DuplicateQuestionHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(w, "bad id")
			return
		}
		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}
		newID, err := s.Duplicate(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": newID})
	}
}

// POST /banks/{bank}/questions/delete  { "ids": [..] }
func DeleteQuestionsHandler(reg *bank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := decodeIDs(r)
		if err != nil {
			badRequest(w, "bad json")
			return
		}
		s, ok := storeFor(w, r, reg)
		if !ok {
			return
		}
		n, err := s.Delete(r.Context(), ids)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
	}
}
