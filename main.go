package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/collections"
	"crmforms/config"
	"crmforms/handlers"
	"crmforms/logging"
	"crmforms/services"
	"crmforms/templates"
)

// loadResolver builds the geography resolver from the configured dataset
// file, or the embedded dataset when none is set.
func loadResolver(cfg *config.Config) (*services.GeoCascadeResolver, error) {
	if cfg.GeoDatasetPath != "" {
		ds, err := services.LoadGeoDatasetFile(cfg.GeoDatasetPath)
		if err != nil {
			return nil, err
		}
		return services.NewGeoCascadeResolver(ds), nil
	}
	ds, err := services.DefaultGeoDataset()
	if err != nil {
		return nil, err
	}
	return services.NewGeoCascadeResolver(ds), nil
}

func main() {
	app := pocketbase.New()
	cfg := config.Bind(app.RootCmd)

	var resolver *services.GeoCascadeResolver

	// Flags are parsed by now: set up logging and the dataset, then create
	// collections, seed and migrate.
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		logger, err := logging.New(cfg.LogLevel)
		if err != nil {
			log.Fatalf("logger: %v", err)
		}
		logging.Set(logger)

		resolver, err = loadResolver(cfg)
		if err != nil {
			logging.L().Fatalf("geo dataset: %v", err)
		}
		logging.L().Infof("geo dataset loaded: %d countries", len(resolver.ListCountries()))

		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			logging.L().Warnf("seed data failed: %v", err)
		}
		if err := collections.MigrateDefaultModuleAccess(app); err != nil {
			logging.L().Warnf("module access migration failed: %v", err)
		}
		if err := collections.MigrateLeadStatus(app); err != nil {
			logging.L().Warnf("lead status migration failed: %v", err)
		}
		if err := collections.MigrateCanonicalLocations(app, resolver); err != nil {
			logging.L().Warnf("location migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Role resolution, module access checks and navigation
		se.Router.BindFunc(handlers.ModuleAccessMiddleware(app))

		// ── Geography cascade ────────────────────────────────────
		se.Router.GET("/geo/countries", handlers.HandleGeoOptions(resolver, templates.LevelCountry))
		se.Router.GET("/geo/states", handlers.HandleGeoOptions(resolver, templates.LevelState))
		se.Router.GET("/geo/cities", handlers.HandleGeoOptions(resolver, templates.LevelCity))

		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/customers", handlers.HandleCustomerList(app))
		se.Router.GET("/customers/create", handlers.HandleCustomerCreate(resolver, cfg))
		se.Router.POST("/customers", handlers.HandleCustomerSave(app, resolver))
		se.Router.POST("/customers/form", handlers.HandleCustomerFormRefresh(resolver))
		se.Router.GET("/customers/export", handlers.HandleCustomerExportExcel(app, cfg))
		se.Router.GET("/customers/{id}/edit", handlers.HandleCustomerEdit(app, resolver))
		se.Router.POST("/customers/{id}/save", handlers.HandleCustomerUpdate(app, resolver))
		se.Router.DELETE("/customers/{id}", handlers.HandleCustomerDelete(app))

		// ── Leads ────────────────────────────────────────────────
		se.Router.GET("/leads", handlers.HandleLeadList(app))
		se.Router.GET("/leads/create", handlers.HandleLeadCreate(resolver))
		se.Router.POST("/leads", handlers.HandleLeadSave(app, resolver))
		se.Router.GET("/leads/{id}/edit", handlers.HandleLeadEdit(app, resolver))
		se.Router.POST("/leads/{id}/save", handlers.HandleLeadUpdate(app, resolver))

		// ── Proposals and proforma invoices ─────────────────────
		for _, route := range []handlers.DocRoute{handlers.ProposalRoute, handlers.ProformaRoute} {
			se.Router.GET(route.BasePath, handlers.HandleDocumentList(app, route, cfg))
			se.Router.GET(route.BasePath+"/create", handlers.HandleDocumentCreate(app, route, cfg))
			se.Router.POST(route.BasePath, handlers.HandleDocumentSave(app, route, cfg))
			se.Router.POST(route.BasePath+"/{id}/items", handlers.HandleDocumentAddItem(app, route, cfg))
			se.Router.DELETE(route.BasePath+"/{id}/items/{itemId}", handlers.HandleDocumentDeleteItem(app, route, cfg))
			se.Router.GET(route.BasePath+"/{id}", handlers.HandleDocumentView(app, route, cfg))
		}
		se.Router.POST("/proposals/{id}/proforma", handlers.HandleProformaFromProposal(app))
		se.Router.GET("/proformas/{id}/export/pdf", handlers.HandleProformaExportPDF(app, cfg))
		se.Router.POST("/totals/preview", handlers.HandleTotalsPreview())

		// ── Donors ───────────────────────────────────────────────
		se.Router.GET("/donors", handlers.HandleDonorList(app))
		se.Router.GET("/donors/{id}/family", handlers.HandleFamilyView(app))
		se.Router.POST("/donors/{id}/family", handlers.HandleFamilyMemberSave(app))

		// ── Admin ────────────────────────────────────────────────
		se.Router.GET("/admin/module-access", handlers.HandleModuleAccess(app))
		se.Router.POST("/admin/module-access", handlers.HandleModuleAccessSave(app))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/customers")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
