package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/signalbridge/pkg/app"
	"github.com/ghuser/signalbridge/pkg/auth"
	"github.com/ghuser/signalbridge/pkg/config"
	"github.com/ghuser/signalbridge/services/tracking/application/handlers"
	appsvcs "github.com/ghuser/signalbridge/services/tracking/application/services"
)

// TrackingRoutes registers tracking endpoints on the provided chi router:
//
//   - /webhooks/*    HMAC-authenticated commerce platform deliveries
//   - /track         public storefront beacon
//   - /connections   session-authenticated connection admin
func TrackingRoutes(r chi.Router, a *app.Application, cfg *config.Config) {
	svcs := appsvcs.New(a, cfg)

	r.Group(func(r chi.Router) {
		r.Route("/webhooks", func(r chi.Router) {
			r.Use(auth.VerifyWebhookHMAC(cfg.WebhookSecret, a.Logger))
			wh := handlers.NewWebhookHandler(svcs, a.Logger)
			r.Post("/orders/create", wh.OrdersCreate)
			r.Post("/checkouts/create", wh.CheckoutsCreate)
			r.Post("/customers/create", wh.CustomersCreate)
		})

		r.Post("/track", handlers.NewTrackHandler(svcs, a.Logger).Execute)

		r.Route("/connections", func(r chi.Router) {
			r.Use(auth.RequireShop(a.SessionStore, a.Logger))
			ch := handlers.NewConnectionHandler(svcs)
			r.Put("/", ch.Upsert)
			r.Get("/", ch.Get)
			r.Delete("/", ch.Delete)
		})
	})
}
