package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
)

const defaultListOrdersLimit = 100

// Server — тонкий HTTP-адаптер над оркестратором оформления и
// репозиторием заказов.
type Server struct {
	orchestrator checkout.Orchestrator
	orders       domain.OrderRepository
	logger       *log.Entry
}

// NewServer конструирует HTTP-сервис с зависимостями.
func NewServer(orchestrator checkout.Orchestrator, orders domain.OrderRepository, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Server{
		orchestrator: orchestrator,
		orders:       orders,
		logger:       logger,
	}
}

// Router собирает маршруты API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/baskets/{basketID}/checkout", s.handleCheckout)
		r.Get("/orders/{orderID}", s.handleGetOrder)
		r.Get("/orders", s.handleListOrders)
	})
	return r
}

type addressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

type checkoutRequest struct {
	ShippingAddress addressRequest `json:"shipping_address"`
}

type orderItemResponse struct {
	ID            string          `json:"id"`
	CatalogItemID int64           `json:"catalog_item_id"`
	ProductName   string          `json:"product_name"`
	PictureURI    string          `json:"picture_uri,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int32           `json:"quantity"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	BuyerID   string              `json:"buyer_id"`
	ShipTo    addressRequest      `json:"ship_to"`
	Items     []orderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleCheckout оформляет заказ по корзине.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	basketID, err := strconv.ParseInt(chi.URLParam(r, "basketID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "basket id must be an integer")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ShippingAddress.Street == "" || req.ShippingAddress.City == "" ||
		req.ShippingAddress.Country == "" || req.ShippingAddress.ZipCode == "" {
		s.writeError(w, http.StatusBadRequest, "shipping_address requires street, city, country and zip_code")
		return
	}

	order, err := s.orchestrator.FinalizeOrder(r.Context(), basketID, domain.Address{
		Street:  req.ShippingAddress.Street,
		City:    req.ShippingAddress.City,
		State:   req.ShippingAddress.State,
		Country: req.ShippingAddress.Country,
		ZipCode: req.ShippingAddress.ZipCode,
	})
	if err != nil {
		s.writeCheckoutError(w, basketID, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// writeCheckoutError переводит доменные ошибки в HTTP-статусы.
func (s *Server) writeCheckoutError(w http.ResponseWriter, basketID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrBasketNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyBasket):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrBasketInconsistent):
		// Автоматический повтор бессмысленен: корзина устарела.
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.WithError(err).WithField("basket_id", basketID).Error("checkout failed")
		s.writeError(w, http.StatusInternalServerError, "failed to finalize order")
	}
}

// handleGetOrder возвращает заказ по идентификатору.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := s.orders.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.WithError(err).WithField("order_id", orderID).Error("failed to load order")
		s.writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// handleListOrders возвращает заказы покупателя.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	buyerID := r.URL.Query().Get("buyer_id")
	if buyerID == "" {
		s.writeError(w, http.StatusBadRequest, "buyer_id is required")
		return
	}

	limit := defaultListOrdersLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	orders, err := s.orders.ListByBuyer(r.Context(), buyerID, limit)
	if err != nil {
		s.logger.WithError(err).WithField("buyer_id", buyerID).Error("failed to list orders")
		s.writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	s.writeJSON(w, http.StatusOK, map[string][]orderResponse{"orders": result})
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:            item.ID,
			CatalogItemID: item.CatalogItemID,
			ProductName:   item.ProductName,
			PictureURI:    item.PictureURI,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
		})
	}

	return orderResponse{
		ID:      order.ID,
		BuyerID: order.BuyerID,
		ShipTo: addressRequest{
			Street:  order.ShipTo.Street,
			City:    order.ShipTo.City,
			State:   order.ShipTo.State,
			Country: order.ShipTo.Country,
			ZipCode: order.ShipTo.ZipCode,
		},
		Items:     items,
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Warn("failed to encode http response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
