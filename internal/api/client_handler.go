package api

import (
	"fmt"
	"net/http"
	"strconv"

	"bestronggym/gym-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type RegisterClientRequest struct {
	Name           string   `json:"name" binding:"required"`
	Plan           string   `json:"plan" binding:"required"`
	Weight         *float64 `json:"weight" binding:"required,gt=0"`
	Height         *float64 `json:"height" binding:"required,gt=0"`
	ValidityMonths int      `json:"validityMonths" binding:"gte=0"`
	ValidityDays   int      `json:"validityDays" binding:"gte=0"`
	ValidityLabel  string   `json:"validityLabel"`
}

type UpdateClientRequest struct {
	Plan              *string  `json:"plan"`
	Weight            *float64 `json:"weight"`
	Height            *float64 `json:"height"`
	ValidityMonths    *int     `json:"validityMonths"`
	ValidityDays      *int     `json:"validityDays"`
	ValidityLabel     *string  `json:"validityLabel"`
	PaymentExpiration *string  `json:"paymentExpiration"`
}

// --- Handler Methods ---

// ListClients godoc
// @Summary List registered clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param refresh query bool false "Re-read the slot instead of the cached snapshot"
// @Param sort query string false "name (default) or recent"
// @Success 200 {object} CollectionResponse[domain.Client]
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	refresh, err := parseRefresh(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	order, err := service.ParseClientOrder(c.Query("sort"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, loadResponse(h.clientService.ListClients(c.Request.Context(), refresh, order)))
}

// RegisterClient godoc
// @Summary Register or renew a client
// @Description Upserts the client by name and derives the payment expiration from the plan.
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body RegisterClientRequest true "Registration form"
// @Success 201 {object} CollectionResponse[domain.Client]
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 503 {object} gin.H "Record store unavailable"
// @Router /clients [post]
func (h *ClientHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	records, err := h.clientService.RegisterClient(c.Request.Context(), service.RegisterClientInput{
		Name:           req.Name,
		Plan:           req.Plan,
		Weight:         req.Weight,
		Height:         req.Height,
		ValidityMonths: req.ValidityMonths,
		ValidityDays:   req.ValidityDays,
		ValidityLabel:  req.ValidityLabel,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collectionResponse(records))
}

// UpdateClient godoc
// @Summary Partially update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Client name (case-insensitive)"
// @Param patch body UpdateClientRequest true "Fields to change"
// @Success 200 {object} CollectionResponse[domain.Client]
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{name} [patch]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	records, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("name"), service.ClientPatch{
		Plan:              req.Plan,
		Weight:            req.Weight,
		Height:            req.Height,
		ValidityMonths:    req.ValidityMonths,
		ValidityDays:      req.ValidityDays,
		ValidityLabel:     req.ValidityLabel,
		PaymentExpiration: req.PaymentExpiration,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionResponse(records))
}

// RemoveClient godoc
// @Summary Remove a client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param name path string true "Client name (case-insensitive)"
// @Success 200 {object} CollectionResponse[domain.Client]
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{name} [delete]
func (h *ClientHandler) RemoveClient(c *gin.Context) {
	records, err := h.clientService.RemoveClient(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionResponse(records))
}

// LookupStatus godoc
// @Summary Client self lookup
// @Description Public. Shows plan, validity and expiration for the client with the given name.
// @Tags Clients
// @Produce json
// @Param name query string true "Client name"
// @Success 200 {object} service.ClientStatus
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/status [get]
func (h *ClientHandler) LookupStatus(c *gin.Context) {
	status, err := h.clientService.LookupStatus(c.Request.Context(), c.Query("name"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func parseRefresh(c *gin.Context) (bool, error) {
	raw := c.Query("refresh")
	if raw == "" {
		return false, nil
	}
	refresh, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid refresh value %q", raw)
	}
	return refresh, nil
}

