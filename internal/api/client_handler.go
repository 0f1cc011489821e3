package api

import (
	"errors"
	"net/http"
	"time"

	"medidesk/clinic-app/internal/domain"
	"medidesk/clinic-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler holds the client service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

// RegisterClientRequest carries client registration fields. Required-field
// presence is checked in the service so the response can enumerate exactly
// the absent ones, which gin binding tags cannot express.
type RegisterClientRequest struct {
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Phone            string                   `json:"phone"`
	DateOfBirth      string                   `json:"dateOfBirth"`
	Address          *domain.Address          `json:"address"`
	MedicalHistory   *domain.MedicalHistory   `json:"medicalHistory"`
	EmergencyContact *domain.EmergencyContact `json:"emergencyContact"`
}

// UpdateClientRequest carries a partial client update; absent fields are
// left untouched.
type UpdateClientRequest struct {
	Name             *string                  `json:"name"`
	Email            *string                  `json:"email"`
	Phone            *string                  `json:"phone"`
	DateOfBirth      *string                  `json:"dateOfBirth"`
	Address          *domain.Address          `json:"address"`
	MedicalHistory   *domain.MedicalHistory   `json:"medicalHistory"`
	EmergencyContact *domain.EmergencyContact `json:"emergencyContact"`
}

type EnrollRequest struct {
	ProgramIDs []string `json:"programIds"`
}

// ClientResponse is the DTO for returning a client record.
type ClientResponse struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Phone            string                   `json:"phone"`
	DateOfBirth      *time.Time               `json:"dateOfBirth,omitempty"`
	Address          *domain.Address          `json:"address,omitempty"`
	MedicalHistory   *domain.MedicalHistory   `json:"medicalHistory,omitempty"`
	EmergencyContact *domain.EmergencyContact `json:"emergencyContact,omitempty"`
	EnrolledPrograms []string                 `json:"enrolledPrograms"`
	RegistrationDate time.Time                `json:"registrationDate"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// MapClientToResponse converts a domain.Client to a ClientResponse DTO.
func MapClientToResponse(client *domain.Client) ClientResponse {
	if client == nil {
		return ClientResponse{}
	}
	enrolled := client.EnrolledPrograms
	if enrolled == nil {
		enrolled = []string{}
	}
	return ClientResponse{
		ID:               client.ID.Hex(),
		Name:             client.Name,
		Email:            client.Email,
		Phone:            client.Phone,
		DateOfBirth:      client.DateOfBirth,
		Address:          client.Address,
		MedicalHistory:   client.MedicalHistory,
		EmergencyContact: client.EmergencyContact,
		EnrolledPrograms: enrolled,
		RegistrationDate: client.RegistrationDate,
		CreatedAt:        client.CreatedAt,
		UpdatedAt:        client.UpdatedAt,
	}
}

// MapClientsToResponse converts a slice of domain.Client to DTOs.
func MapClientsToResponse(clients []domain.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i, client := range clients {
		responses[i] = MapClientToResponse(&client)
	}
	return responses
}

// parseDate accepts both RFC 3339 timestamps and bare dates ("2023-01-01"),
// matching what the registration and program forms submit.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// --- Handler Methods ---

// ListClients returns every registered client.
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": MapClientsToResponse(clients)})
}

// RegisterClient creates a new client record.
func (h *ClientHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to register client"})
		return
	}

	client := &domain.Client{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		MedicalHistory:   req.MedicalHistory,
		EmergencyContact: req.EmergencyContact,
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to register client"})
			return
		}
		client.DateOfBirth = &dob
	}

	created, err := h.clientService.RegisterClient(c.Request.Context(), client)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "errors": missing.Fields})
		case errors.Is(err, service.ErrEmailExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists", "errors": gin.H{"field": "email"}})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register client"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client registered successfully",
		"client":  MapClientToResponse(created),
	})
}

// GetClient returns a single client profile.
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, ok := h.clientIDFromPath(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client profile"})
		}
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// UpdateClient merges the supplied fields into an existing client profile.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := h.clientIDFromPath(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := domain.ClientUpdate{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		MedicalHistory:   req.MedicalHistory,
		EmergencyContact: req.EmergencyContact,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		update.DateOfBirth = &dob
	}

	updated, err := h.clientService.UpdateClient(c.Request.Context(), clientID, update)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "errors": missing.Fields})
		case errors.Is(err, service.ErrEmailExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists", "errors": gin.H{"field": "email"}})
		case errors.Is(err, service.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client profile"})
		}
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(updated))
}

// DeleteClient removes a client record.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := h.clientIDFromPath(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Client deleted successfully"})
}

// EnrollClient adds program ids to a client's enrolled set.
func (h *ClientHandler) EnrollClient(c *gin.Context) {
	idStr := c.Param("id")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Client ID is required"})
		return
	}
	clientID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid program IDs provided"})
		return
	}

	enrolled, err := h.clientService.EnrollClient(c.Request.Context(), clientID, req.ProgramIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProgramIDs):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid program IDs provided"})
		case errors.Is(err, service.ErrClientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Client not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to enroll client in programs"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"clientId":         clientID.Hex(),
			"enrolledPrograms": enrolled,
		},
	})
}

// clientIDFromPath parses the :id path parameter. A missing id is a 400, an
// id that cannot be a document id resolves to nothing, hence 404.
func (h *ClientHandler) clientIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	idStr := c.Param("id")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client ID is required"})
		return primitive.NilObjectID, false
	}
	clientID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return primitive.NilObjectID, false
	}
	return clientID, true
}
