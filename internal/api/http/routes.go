package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/rbac"

	// export formats register themselves
	_ "github.com/mind-engage/qbank/internal/docx"
	_ "github.com/mind-engage/qbank/internal/moodle/export"
	_ "github.com/mind-engage/qbank/internal/qti"
)

// Mount registers the bank and question routes on r. The caller installs
// the middleware that puts a role on the request context.
func Mount(r chi.Router, reg *bank.Registry) {
	r.With(rbac.Require("bank:view")).Get("/banks", ListBanksHandler(reg))
	r.With(rbac.Require("bank:manage")).Post("/banks", AddBankHandler(reg))

	r.Route("/banks/{bank}", func(br chi.Router) {
		br.With(rbac.Require("bank:manage")).Delete("/", RemoveBankHandler(reg))

		br.With(rbac.Require("question:view")).Get("/questions", ListQuestionsHandler(reg))
		br.With(rbac.Require("question:edit")).Post("/questions", CreateQuestionHandler(reg))
		br.With(rbac.Require("question:delete")).Post("/questions/delete", DeleteQuestionsHandler(reg))
		br.With(rbac.Require("question:view")).Get("/questions/{id}", GetQuestionHandler(reg))
		br.With(rbac.Require("question:edit")).Put("/questions/{id}", UpdateQuestionHandler(reg))
		br.With(rbac.Require("question:edit")).Post("/questions/{id}/duplicate", DuplicateQuestionHandler(reg))

		br.With(rbac.Require("question:import")).Post("/import", ImportHandler(reg))
		br.With(rbac.Require("question:export")).Post("/export", ExportHandler(reg))
	})
}
