// Package leads wires the lead intake and management vertical.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	catalogrepo "adiabatic_site_backend/internal/catalog/repository"
	"adiabatic_site_backend/internal/events"
	apphttp "adiabatic_site_backend/internal/http"
	"adiabatic_site_backend/internal/leads/attribution"
	"adiabatic_site_backend/internal/leads/forms"
	"adiabatic_site_backend/internal/leads/handler"
	"adiabatic_site_backend/internal/leads/management"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/config"
	"adiabatic_site_backend/platform/logger"
	"adiabatic_site_backend/platform/validator"
)

type Module struct {
	public *handler.PublicHandler
	staff  *handler.StaffHandler

	// Repo is exposed for consumers outside the HTTP surface, such as the
	// notification dispatcher reloading leads by UUID.
	Repo *repository.Repository
}

func NewModule(
	log *logger.Logger,
	cfg config.AppConfig,
	pool *pgxpool.Pool,
	checks *validator.Validator,
	bus events.Bus,
) *Module {
	repo := repository.New(pool)
	products := catalogrepo.New(pool)
	resolver := attribution.NewResolver(repo)
	formValidator := forms.New(checks)
	service := management.NewService(log, repo, bus)

	return &Module{
		public: handler.NewPublicHandler(log, cfg, formValidator, repo, products, resolver, bus),
		staff:  handler.NewStaffHandler(log, service),
		Repo:   repo,
	}
}

func (m *Module) Name() string { return "leads" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/leads")
	public.POST("/submit", ctx.IntakeRateLimit, m.public.Submit)
	public.POST("/quick-quote", ctx.IntakeRateLimit, m.public.QuickQuote)
	public.POST("/contact", ctx.IntakeRateLimit, m.public.Contact)
	public.GET("/thank-you/:uuid", m.public.ThankYou)

	staff := ctx.Admin.Group("/leads")
	staff.GET("", m.staff.List)
	staff.GET("/:uuid", m.staff.Get)
	staff.PATCH("/:uuid/status", m.staff.UpdateStatus)
	staff.POST("/:uuid/notes", m.staff.AddNote)
}
