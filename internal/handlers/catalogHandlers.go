package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"modshop/internal/models"
	"modshop/internal/services"
	"modshop/internal/utils"
)

type ProductHandler struct {
	service services.ProductService
}

func NewProductHandler(service services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := utils.DecodeJSON(w, r, &product); err != nil {
		return
	}

	created, err := h.service.CreateProduct(r.Context(), product)
	if err != nil {
		writeServiceError(w, r, err, "Error adding product via service")
		return
	}

	log.Info().Str("product_id", created.ID.Hex()).Msg("Product created")
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err, "Error getting products from service")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) CountProducts(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err, "Error counting products")
		return
	}
	respondWithCount(w, count)
}

func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error getting product by ID")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var product models.Product
	if err := utils.DecodeJSON(w, r, &product); err != nil {
		return
	}

	replaced, err := h.service.ReplaceProduct(r.Context(), id, product)
	if err != nil {
		writeServiceError(w, r, err, "Error replacing product")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, replaced)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Error deleting product")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Product deleted successfully")
}

type ServiceHandler struct {
	service services.ServiceService
}

func NewServiceHandler(service services.ServiceService) *ServiceHandler {
	return &ServiceHandler{service: service}
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var svc models.Service
	if err := utils.DecodeJSON(w, r, &svc); err != nil {
		return
	}

	created, err := h.service.CreateService(r.Context(), svc)
	if err != nil {
		writeServiceError(w, r, err, "Error adding service")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *ServiceHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetServices(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error getting services")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *ServiceHandler) CountServices(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountServices(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error counting services")
		return
	}
	respondWithCount(w, count)
}

func (h *ServiceHandler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	svc, err := h.service.GetServiceByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error getting service by ID")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, svc)
}

func (h *ServiceHandler) ReplaceService(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var svc models.Service
	if err := utils.DecodeJSON(w, r, &svc); err != nil {
		return
	}

	replaced, err := h.service.ReplaceService(r.Context(), id, svc)
	if err != nil {
		writeServiceError(w, r, err, "Error replacing service")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, replaced)
}

func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteService(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Error deleting service")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Service deleted successfully")
}

type PriorityServiceHandler struct {
	service services.PriorityServiceService
}

func NewPriorityServiceHandler(service services.PriorityServiceService) *PriorityServiceHandler {
	return &PriorityServiceHandler{service: service}
}

func (h *PriorityServiceHandler) CreatePriorityService(w http.ResponseWriter, r *http.Request) {
	var ps models.PriorityService
	if err := utils.DecodeJSON(w, r, &ps); err != nil {
		return
	}

	created, err := h.service.CreatePriorityService(r.Context(), ps)
	if err != nil {
		writeServiceError(w, r, err, "Error adding priority service")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *PriorityServiceHandler) GetPriorityServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetPriorityServices(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err, "Error getting priority services")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *PriorityServiceHandler) CountPriorityServices(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountPriorityServices(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err, "Error counting priority services")
		return
	}
	respondWithCount(w, count)
}

func (h *PriorityServiceHandler) GetPriorityServiceByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	ps, err := h.service.GetPriorityServiceByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error getting priority service by ID")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ps)
}

func (h *PriorityServiceHandler) ReplacePriorityService(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var ps models.PriorityService
	if err := utils.DecodeJSON(w, r, &ps); err != nil {
		return
	}

	replaced, err := h.service.ReplacePriorityService(r.Context(), id, ps)
	if err != nil {
		writeServiceError(w, r, err, "Error replacing priority service")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, replaced)
}

func (h *PriorityServiceHandler) DeletePriorityService(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeletePriorityService(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Error deleting priority service")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Priority service deleted successfully")
}
