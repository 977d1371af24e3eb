package handlers

import (
	"net/http"

	"github.com/pichanga-app/pichanga-backend/services"
)

type PromoHandler struct {
	promoService *services.PromoService
}

func NewPromoHandler(promoService *services.PromoService) *PromoHandler {
	return &PromoHandler{promoService: promoService}
}

// Home handles GET /api/home/promos.
func (h *PromoHandler) Home(w http.ResponseWriter, r *http.Request) {
	promos, err := h.promoService.Home(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	respondOK(w, "", promos)
}
