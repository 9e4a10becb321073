package handlers

import (
	"net/http"

	"modshop/internal/models"
	"modshop/internal/services"
	"modshop/internal/utils"
)

type InquiryHandler struct {
	service services.InquiryService
}

func NewInquiryHandler(service services.InquiryService) *InquiryHandler {
	return &InquiryHandler{service: service}
}

func inquiryFilter(r *http.Request) services.InquiryFilter {
	q := r.URL.Query()
	return services.InquiryFilter{Category: q.Get("category"), Service: q.Get("service")}
}

func (h *InquiryHandler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var inquiry models.Inquiry
	if err := utils.DecodeJSON(w, r, &inquiry); err != nil {
		return
	}

	created, err := h.service.CreateInquiry(r.Context(), inquiry)
	if err != nil {
		writeServiceError(w, r, err, "Error creating inquiry")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *InquiryHandler) GetInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.service.GetInquiries(r.Context(), inquiryFilter(r))
	if err != nil {
		writeServiceError(w, r, err, "Error getting inquiries")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inquiries)
}

func (h *InquiryHandler) CountInquiries(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountInquiries(r.Context(), inquiryFilter(r))
	if err != nil {
		writeServiceError(w, r, err, "Error counting inquiries")
		return
	}
	respondWithCount(w, count)
}

func (h *InquiryHandler) GetInquiryByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	inquiry, err := h.service.GetInquiryByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error getting inquiry")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inquiry)
}

func (h *InquiryHandler) ReplaceInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var inquiry models.Inquiry
	if err := utils.DecodeJSON(w, r, &inquiry); err != nil {
		return
	}

	replaced, err := h.service.ReplaceInquiry(r.Context(), id, inquiry)
	if err != nil {
		writeServiceError(w, r, err, "Error replacing inquiry")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, replaced)
}

func (h *InquiryHandler) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteInquiry(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Error deleting inquiry")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Inquiry deleted successfully")
}

type ContactHandler struct {
	service services.ContactService
}

func NewContactHandler(service services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var contact models.Contact
	if err := utils.DecodeJSON(w, r, &contact); err != nil {
		return
	}

	created, err := h.service.CreateContact(r.Context(), contact)
	if err != nil {
		writeServiceError(w, r, err, "Error saving contact message")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *ContactHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.GetContacts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error getting contact messages")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) CountContacts(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountContacts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Error counting contact messages")
		return
	}
	respondWithCount(w, count)
}

func (h *ContactHandler) GetContactByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	contact, err := h.service.GetContactByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Error getting contact message")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) ReplaceContact(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var contact models.Contact
	if err := utils.DecodeJSON(w, r, &contact); err != nil {
		return
	}

	replaced, err := h.service.ReplaceContact(r.Context(), id, contact)
	if err != nil {
		writeServiceError(w, r, err, "Error replacing contact message")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, replaced)
}

func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteContact(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Error deleting contact message")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Contact message deleted successfully")
}
