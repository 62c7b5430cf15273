// Package repaircrm предоставляет маршруты для основного приложения.
package repaircrm

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/repair-crm/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/repair-crm/internal/http/handlers/auth/register"
	clientcreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/client/create"
	clientlist "github.com/magabrotheeeer/repair-crm/internal/http/handlers/client/list"
	clientread "github.com/magabrotheeeer/repair-crm/internal/http/handlers/client/read"
	clientremove "github.com/magabrotheeeer/repair-crm/internal/http/handlers/client/remove"
	clientupdate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/client/update"
	devicecreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/device/create"
	devicelist "github.com/magabrotheeeer/repair-crm/internal/http/handlers/device/list"
	deviceread "github.com/magabrotheeeer/repair-crm/internal/http/handlers/device/read"
	devicemodelcreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/devicemodel/create"
	devicetypecreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/devicetype/create"
	"github.com/magabrotheeeer/repair-crm/internal/http/handlers/health"
	paymentactive "github.com/magabrotheeeer/repair-crm/internal/http/handlers/payment/active"
	paymentcreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/payment/create"
	paymentlast "github.com/magabrotheeeer/repair-crm/internal/http/handlers/payment/last"
	paymentlist "github.com/magabrotheeeer/repair-crm/internal/http/handlers/payment/list"
	paymentlistbyclient "github.com/magabrotheeeer/repair-crm/internal/http/handlers/payment/listbyclient"
	partcreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/part/create"
	subcreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/repair-crm/internal/http/handlers/subscription/list"
	subread "github.com/magabrotheeeer/repair-crm/internal/http/handlers/subscription/read"
	subremove "github.com/magabrotheeeer/repair-crm/internal/http/handlers/subscription/remove"
	subrenew "github.com/magabrotheeeer/repair-crm/internal/http/handlers/subscription/renew"
	subtypecreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/subscriptiontype/create"
	ticketaddcharge "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticket/addcharge"
	ticketcreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticket/create"
	ticketdischarge "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticket/discharge"
	ticketlist "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticket/list"
	ticketread "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticket/read"
	ticketreport "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticket/report"
	ticketupdate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticket/update"
	ticketstatuscreate "github.com/magabrotheeeer/repair-crm/internal/http/handlers/ticketstatus/create"
	"github.com/magabrotheeeer/repair-crm/internal/http/middlewarectx"
	jwtmaker "github.com/magabrotheeeer/repair-crm/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/repair-crm/internal/services/auth"
	clientservice "github.com/magabrotheeeer/repair-crm/internal/services/client"
	paymentservice "github.com/magabrotheeeer/repair-crm/internal/services/payment"
	reportservice "github.com/magabrotheeeer/repair-crm/internal/services/report"
	subservice "github.com/magabrotheeeer/repair-crm/internal/services/subscription"
	ticketservice "github.com/magabrotheeeer/repair-crm/internal/services/ticket"
	"github.com/magabrotheeeer/repair-crm/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwtmaker.Maker, db *repository.Storage,
	authService *authservice.AuthService,
	clientService *clientservice.ClientService,
	subscriptionService *subservice.SubscriptionService,
	paymentService *paymentservice.PaymentService,
	ticketService *ticketservice.TicketService,
	reportService *reportservice.ReportService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/clients", clientcreate.New(logger, clientService).ServeHTTP)
			r.Get("/clients", clientlist.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, clientService).ServeHTTP)
			r.Put("/clients/{id}", clientupdate.New(logger, clientService).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}/devices", devicelist.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}/subscriptions", sublist.New(logger, subscriptionService).ServeHTTP)
			r.Get("/clients/{id}/tickets", ticketlist.New(logger, ticketService).ServeHTTP)
			r.Get("/clients/{id}/payments", paymentlistbyclient.New(logger, paymentService).ServeHTTP)

			r.Post("/devices", devicecreate.New(logger, clientService).ServeHTTP)
			r.Get("/devices/{id}", deviceread.New(logger, clientService).ServeHTTP)
			r.Post("/device-types", devicetypecreate.New(logger, clientService).ServeHTTP)
			r.Post("/device-models", devicemodelcreate.New(logger, clientService).ServeHTTP)

			r.Post("/subscription-types", subtypecreate.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions", subcreate.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", subread.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", subremove.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{id}/renew", subrenew.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}/payments", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Get("/subscriptions/{id}/payments/active", paymentactive.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}/payments/last", paymentlast.New(logger, subscriptionService).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, paymentService).ServeHTTP)

			r.Post("/parts", partcreate.New(logger, ticketService).ServeHTTP)
			r.Post("/ticket-statuses", ticketstatuscreate.New(logger, ticketService).ServeHTTP)
			r.Post("/tickets", ticketcreate.New(logger, ticketService).ServeHTTP)
			r.Get("/tickets/{id}", ticketread.New(logger, ticketService).ServeHTTP)
			r.Put("/tickets/{id}", ticketupdate.New(logger, ticketService).ServeHTTP)
			r.Post("/tickets/{id}/discharge", ticketdischarge.New(logger, ticketService).ServeHTTP)
			r.Post("/tickets/{id}/charges", ticketaddcharge.New(logger, ticketService).ServeHTTP)
			r.Get("/tickets/{id}/report", ticketreport.New(logger, ticketService, reportService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
