package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(logger *slog.Logger, payrollHandler PayrollHandler, settingsHandler SettingsHandler, emolumentHandler EmolumentHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/payroll-runs", func(r chi.Router) {
			r.Post("/", payrollHandler.CreateRun)
			r.Get("/", payrollHandler.ListRuns)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", payrollHandler.GetRun)
				r.Get("/items", payrollHandler.ListItems)
				r.Post("/calculate", payrollHandler.CalculateRun)
				r.Post("/approve", payrollHandler.ApproveRun)
				r.Post("/export", payrollHandler.ExportRun)
				r.Post("/cancel", payrollHandler.CancelRun)
				r.Post("/reopen", payrollHandler.ReopenRun)
			})
		})

		r.Route("/payroll-settings", func(r chi.Router) {
			r.Get("/", settingsHandler.ListSettings)

			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", settingsHandler.GetSetting)
				r.Get("/history", settingsHandler.GetSettingHistory)
				r.Put("/", settingsHandler.UpdateSetting)
			})
		})

		r.Route("/payroll-components", func(r chi.Router) {
			r.Get("/", emolumentHandler.ListComponents)
			r.Post("/", emolumentHandler.CreateComponent)
			r.Get("/{code}", emolumentHandler.GetComponent)
		})

		r.Get("/tax-brackets", settingsHandler.ListTaxBrackets)
	})
	return r
}
