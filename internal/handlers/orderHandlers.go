package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"modshop/internal/models"
	"modshop/internal/services"
	"modshop/internal/utils"
)

type OrderHandler struct {
	service services.OrderService
}

func NewOrderHandler(service services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrder answers 201 once the order is stored. The confirmation email is sent afterwards.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Error placing order")
		return
	}

	log.Info().Str("order_id", order.ID.Hex()).Msg("Order created")
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err, "Error getting orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) CountOrders(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err, "Error counting orders")
		return
	}
	respondWithCount(w, count)
}

func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	order, err := h.service.GetOrderByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error getting order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var update models.OrderUpdate
	if err := utils.DecodeJSON(w, r, &update); err != nil {
		return
	}

	order, err := h.service.UpdateOrder(r.Context(), id, update)
	if err != nil {
		writeServiceError(w, r, err, "Error updating order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Error deleting order")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Order deleted successfully")
}

func (h *OrderHandler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	order, err := h.service.ResendConfirmation(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error re-sending order confirmation")
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, order)
}
