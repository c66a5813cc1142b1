package api

import (
	"fmt"
	"net/http"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	membershipService service.MembershipService
}

func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// MembershipRequest saves a membership. Price and recommended may be left
// out to keep the stored values.
type MembershipRequest struct {
	Name         string   `json:"name" binding:"required"`
	DurationDays int      `json:"durationDays" binding:"gte=0"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	Recommended  *bool    `json:"recommended"`
}

// MembershipsResponse is the public membership list plus the highlighted
// plan card, if any.
type MembershipsResponse struct {
	CollectionResponse[domain.Membership]
	Recommended *domain.Membership `json:"recommended,omitempty"`
}

// ListMemberships godoc
// @Summary List memberships
// @Description Public. The plan cards shown to visitors.
// @Tags Memberships
// @Produce json
// @Param refresh query bool false "Re-read the slot instead of the cached snapshot"
// @Success 200 {object} MembershipsResponse
// @Router /memberships [get]
func (h *MembershipHandler) ListMemberships(c *gin.Context) {
	refresh, err := parseRefresh(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	resp := MembershipsResponse{
		CollectionResponse: loadResponse(h.membershipService.ListMemberships(ctx, refresh)),
	}
	if m, ok := h.membershipService.RecommendedMembership(ctx); ok {
		resp.Recommended = &m
	}
	c.JSON(http.StatusOK, resp)
}

// SaveMembership godoc
// @Summary Create or update a membership
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param membership body MembershipRequest true "Membership"
// @Success 200 {object} CollectionResponse[domain.Membership]
// @Router /memberships [put]
func (h *MembershipHandler) SaveMembership(c *gin.Context) {
	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	records, err := h.membershipService.SaveMembership(c.Request.Context(), service.MembershipInput{
		Name:         req.Name,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Recommended:  req.Recommended,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionResponse(records))
}

// RemoveMembership godoc
// @Summary Remove a membership
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param name path string true "Membership name"
// @Success 200 {object} CollectionResponse[domain.Membership]
// @Router /memberships/{name} [delete]
func (h *MembershipHandler) RemoveMembership(c *gin.Context) {
	records, err := h.membershipService.RemoveMembership(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionResponse(records))
}

// Recommend godoc
// @Summary Mark a membership as the recommended one
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param name path string true "Membership name"
// @Success 200 {object} CollectionResponse[domain.Membership]
// @Router /memberships/{name}/recommended [put]
func (h *MembershipHandler) Recommend(c *gin.Context) {
	records, err := h.membershipService.Recommend(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionResponse(records))
}
