package http

import (
	"log/slog"
	"net/http"

	"github.com/escopo/escopo-backend-go/internal/domain/user"
	"github.com/escopo/escopo-backend-go/internal/handler/http/middleware"
	"github.com/escopo/escopo-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewRouter(JWTService jwt.Service, opts RouterOptions, payrollHandler PayrollHandler, employeeHandler EmployeeHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeViewAll))
				r.Get("/", employeeHandler.ListEmployees)
				r.Get("/{id}", employeeHandler.GetEmployee)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/rubrics", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.ListRubrics)
					r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/{id}", payrollHandler.GetRubric)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionRubricManage))
						r.Post("/", payrollHandler.CreateRubric)
						r.Post("/defaults", payrollHandler.SeedDefaultRubrics)
						r.Put("/{id}", payrollHandler.UpdateRubric)
						r.Delete("/{id}", payrollHandler.DeleteRubric)
					})
				})

				r.Route("/calculations", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollCalculate))
					r.Post("/monthly", payrollHandler.CalculateMonthly)
					r.Post("/thirteenth", payrollHandler.CalculateThirteenth)
					r.Post("/vacation", payrollHandler.CalculateVacation)
					r.Post("/termination", payrollHandler.CalculateTermination)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/payslips", payrollHandler.ListPayslips)
					r.Get("/payslips/{id}", payrollHandler.GetPayslip)
					r.Get("/tax-tables/{year}", payrollHandler.GetTaxTable)
				})
			})
		})
	})
	return r
}
