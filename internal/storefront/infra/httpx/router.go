package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/catalog", handler.GetCatalog)
	r.Post("/sessions", handler.CreateSession)

	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Use(handler.LoadSession)

		r.Get("/", handler.GetSession)
		r.Delete("/", handler.DeleteSession)

		r.Post("/cart/items", handler.AddItem)
		r.Patch("/cart/items/{productID}", handler.ChangeQuantity)
		r.Delete("/cart/items/{productID}", handler.RemoveItem)

		r.Put("/selection", handler.Select)
		r.Delete("/selection", handler.ClearSelection)
		r.Post("/selection/cart", handler.AddSelected)

		r.Patch("/order-info", handler.UpdateOrderInfo)
		r.Post("/orders", handler.SubmitOrder)
		r.Delete("/notice", handler.DismissNotice)
	})
	return r
}
