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

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs ---

// CreateProgramRequest carries program creation fields. Dates arrive as
// strings so the form's bare "2023-01-01" values parse.
type CreateProgramRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Goals       string `json:"goals"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Status      string `json:"status"`
}

// UpdateProgramRequest carries a partial program update.
type UpdateProgramRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Goals       *string `json:"goals"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *string `json:"status"`
}

// ProgramResponse is the DTO for returning a program.
type ProgramResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Goals       string     `json:"goals"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MapProgramToResponse converts a domain.Program to a ProgramResponse DTO.
func MapProgramToResponse(program *domain.Program) ProgramResponse {
	if program == nil {
		return ProgramResponse{}
	}
	return ProgramResponse{
		ID:          program.ID.Hex(),
		Name:        program.Name,
		Type:        program.Type,
		Description: program.Description,
		Goals:       program.Goals,
		StartDate:   program.StartDate,
		EndDate:     program.EndDate,
		Status:      string(program.Status),
		CreatedAt:   program.CreatedAt,
		UpdatedAt:   program.UpdatedAt,
	}
}

// MapProgramsToResponse converts a slice of domain.Program to DTOs.
func MapProgramsToResponse(programs []domain.Program) []ProgramResponse {
	responses := make([]ProgramResponse, len(programs))
	for i, program := range programs {
		responses[i] = MapProgramToResponse(&program)
	}
	return responses
}

// --- Handler Methods ---

// ListPrograms returns every program, newest first.
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programService.ListPrograms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch programs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": MapProgramsToResponse(programs)})
}

// CreateProgram creates a new health program.
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	// A missing startDate falls through to the service's required-field
	// check; a present but malformed one is its own failure.
	if req.StartDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid date format"})
		return
	}

	program := &domain.Program{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Goals:       req.Goals,
		StartDate:   startDate,
		Status:      domain.ProgramStatus(req.Status),
	}
	if req.EndDate != "" {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid date format"})
			return
		}
		program.EndDate = &endDate
	}

	created, err := h.programService.CreateProgram(c.Request.Context(), program)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingProgramFields):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		case errors.Is(err, service.ErrInvalidProgramStatus):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create program"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": MapProgramToResponse(created)})
}

// UpdateProgram merges the supplied fields into an existing program.
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	programID, ok := h.programIDFromPath(c)
	if !ok {
		return
	}

	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	update := domain.ProgramUpdate{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Goals:       req.Goals,
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid date format"})
			return
		}
		update.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid date format"})
			return
		}
		update.EndDate = &endDate
	}
	if req.Status != nil {
		status := domain.ProgramStatus(*req.Status)
		update.Status = &status
	}

	updated, err := h.programService.UpdateProgram(c.Request.Context(), programID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Program not found"})
		case errors.Is(err, service.ErrMissingProgramFields):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		case errors.Is(err, service.ErrInvalidProgramStatus):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update program"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": MapProgramToResponse(updated)})
}

// DeleteProgram removes a program and echoes the deleted record.
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	programID, ok := h.programIDFromPath(c)
	if !ok {
		return
	}

	deleted, err := h.programService.DeleteProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Program not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete program"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": MapProgramToResponse(deleted)})
}

// programIDFromPath parses the :id path parameter.
func (h *ProgramHandler) programIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	idStr := c.Param("id")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Program ID is required"})
		return primitive.NilObjectID, false
	}
	programID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Program not found"})
		return primitive.NilObjectID, false
	}
	return programID, true
}
