package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterConfig carries the cross-cutting settings of the HTTP layer
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, attendanceHandler AttendanceHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1/companies/{companyID}", func(r chi.Router) {

		r.Route("/attendance", func(r chi.Router) {
			r.Route("/resolve", func(r chi.Router) {
				r.Post("/", attendanceHandler.Resolve)
				r.Post("/batch", attendanceHandler.ResolveBatch)
				r.Post("/export", attendanceHandler.ExportBatch)
			})

			r.Get("/settings", attendanceHandler.GetSettings)
			r.Put("/settings", attendanceHandler.UpdateSettings)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/period", payrollHandler.ResolvePeriod)

			r.Route("/cycle", func(r chi.Router) {
				r.Get("/", payrollHandler.GetCycleConfig)
				r.Put("/", payrollHandler.UpdateCycleConfig)
				r.Get("/employees/{employeeID}", payrollHandler.GetCycleConfig)
				r.Put("/employees/{employeeID}", payrollHandler.UpdateCycleConfig)
			})

			r.Get("/settings", payrollHandler.GetSettings)
			r.Put("/settings", payrollHandler.UpdateSettings)

			r.Get("/tax-brackets", payrollHandler.GetTaxBrackets)
			r.Put("/tax-brackets", payrollHandler.UpdateTaxBrackets)

			r.Route("/salary", func(r chi.Router) {
				r.Post("/", payrollHandler.CalculateSalary)
				r.Post("/payslip", payrollHandler.GeneratePayslip)
			})

			r.Route("/run", func(r chi.Router) {
				r.Post("/", payrollHandler.RunPayroll)
			})
			r.Get("/runs/{runID}", payrollHandler.GetRun)
		})
	})
	return r
}
