package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/gaurav7717/PurchaseInvoice/internal/auth"
)

func NewRouter(handler *Handler, tokens *auth.TokenManager, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)
	r.Post("/token", handler.Token)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(tokens))

		r.Post("/invoices/", handler.CreateInvoice)
		r.Get("/invoices/", handler.ListInvoices)
		r.Get("/invoices/{id}", handler.GetInvoice)
		r.Put("/invoices/{id}", handler.UpdateInvoice)
		r.Delete("/invoices/{id}", handler.DeleteInvoice)
		r.Post("/invoices/{id}/items", handler.AddInvoiceItem)
		r.Delete("/invoice_items/{id}", handler.DeleteInvoiceItem)

		r.Post("/upload-pdf/", handler.UploadPDF)

		r.Get("/vendors/", handler.ListVendors)
		r.Post("/vendors/", handler.CreateVendor)
		r.Get("/vendors/{id}", handler.GetVendor)
		r.Put("/vendors/{id}", handler.UpdateVendor)
		r.Delete("/vendors/{id}", handler.DeleteVendor)
	})

	return r
}
