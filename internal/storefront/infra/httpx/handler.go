package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/money"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/session"
)

type sessionKey struct{}

// Handler exposes the catalog and the per-visitor storefront sessions.
type Handler struct {
	catalog  *catalog.Catalog
	sessions *session.Store
}

func NewHandler(cat *catalog.Catalog, sessions *session.Store) *Handler {
	return &Handler{catalog: cat, sessions: sessions}
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, CatalogResponse{Currency: money.Code(), Products: out})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	slog.InfoContext(r.Context(), "session created", "session_id", s.ID())
	writeJSON(w, http.StatusCreated, mapView(s.Snapshot()))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapView(sessionFrom(r).Snapshot()))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(sessionFrom(r).ID())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decode(w, r, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	s := sessionFrom(r)
	if err := s.AddToCart(req.ProductID, quantity); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req ChangeQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity is required")
		return
	}

	s := sessionFrom(r)
	if err := s.ChangeQuantity(productID, *req.Quantity); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	s := sessionFrom(r)
	s.RemoveFromCart(productID)
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decode(w, r, &req) {
		return
	}
	s := sessionFrom(r)
	if err := s.Select(req.ProductID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.ClearSelection()
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

func (h *Handler) AddSelected(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := s.AddSelected(); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

func (h *Handler) UpdateOrderInfo(w http.ResponseWriter, r *http.Request) {
	var req OrderInfoRequest
	if !decode(w, r, &req) {
		return
	}

	values := make(map[orderform.Field]string, 3)
	if req.Name != nil {
		values[orderform.FieldName] = *req.Name
	}
	if req.Phone != nil {
		values[orderform.FieldPhone] = *req.Phone
	}
	if req.Address != nil {
		values[orderform.FieldAddress] = *req.Address
	}

	s := sessionFrom(r)
	if err := s.SetFields(values); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

// SubmitOrder finalizes the session's cart. Rejections answer 422 with the
// reason code, and for incomplete info the fields still missing.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	summary, err := s.Submit(r.Context())
	if err != nil {
		var incomplete *checkout.IncompleteInfoError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:   checkout.ReasonIncompleteCustomerInfo,
				Message: err.Error(),
				Missing: fieldNames(incomplete.Missing),
			})
			return
		}
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapSummary(summary))
}

func (h *Handler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.DismissNotice()
	writeJSON(w, http.StatusOK, mapView(s.Snapshot()))
}

// LoadSession resolves {sid} and makes the session and its id available to
// the handlers and to outgoing gRPC calls.
func (h *Handler) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.sessions.Get(chi.URLParam(r, "sid"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, s)
		ctx = context.WithValue(ctx, constants.ContextKeySessionID, s.ID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey{}).(*session.Session)
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_product_id", err.Error())
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func fieldNames(fields []orderform.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// writeDomainError maps storefront errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, session.ErrNothingSelected):
		writeError(w, http.StatusConflict, "nothing_selected", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		writeError(w, http.StatusNotFound, checkout.ReasonProductNotFound, err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, orderform.ErrUnknownField):
		writeError(w, http.StatusBadRequest, checkout.Reason(err), err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusUnprocessableEntity, checkout.ReasonEmptyCart, err.Error())
	default:
		slog.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
