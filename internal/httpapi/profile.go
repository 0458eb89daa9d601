package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type profileHandler struct {
	profiles port.ProfileRepository
	log      *slog.Logger
}

type ProfileDTO struct {
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Email     string     `json:"email,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func toProfileDTO(p domain.Profile) ProfileDTO {
	dto := ProfileDTO{
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		Email:   p.Email,
	}
	if !p.UpdatedAt.IsZero() {
		dto.UpdatedAt = &p.UpdatedAt
	}
	return dto
}

// GET /api/profile, an unsaved profile is empty rather than missing
func (h *profileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, found, err := h.profiles.GetProfile(r.Context(), user.ID)
	if err != nil {
		handleError(w, h.log, "profileHandler.Get", err)
		return
	}
	if !found {
		profile = domain.Profile{OwnerID: user.ID, Email: user.Email}
	}

	respondJSON(w, http.StatusOK, toProfileDTO(profile))
}

type profileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PUT /api/profile, the email always comes from the token
func (h *profileHandler) Put(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	profile, err := h.profiles.UpsertProfile(r.Context(), domain.Profile{
		OwnerID: user.ID,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Email:   user.Email,
	})
	if err != nil {
		handleError(w, h.log, "profileHandler.Put", err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileDTO(profile))
}
