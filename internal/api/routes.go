package api

import (
	"net/http"

	"medidesk/clinic-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every endpoint onto the router.
//
// Client and program CRUD are open endpoints consumed by the clinic UI; the
// attachment surface and /auth/me sit behind the JWT middleware.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	clientService service.ClientService,
	programService service.ProgramService,
	attachmentService service.AttachmentService,
) {
	authHandler := NewAuthHandler(authService)
	clientHandler := NewClientHandler(clientService)
	programHandler := NewProgramHandler(programService)
	attachmentHandler := NewAttachmentHandler(attachmentService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware, authHandler.Me)
	}

	clientGroup := router.Group("/clients")
	{
		clientGroup.GET("", clientHandler.ListClients)
		clientGroup.POST("", clientHandler.RegisterClient)
		clientGroup.GET("/:id", clientHandler.GetClient)
		clientGroup.PUT("/:id", clientHandler.UpdateClient)
		clientGroup.DELETE("/:id", clientHandler.DeleteClient)
		clientGroup.POST("/:id/enroll", clientHandler.EnrollClient)

		// Attachment endpoints are clinician-only.
		clientGroup.POST("/:id/attachments", authMiddleware, attachmentHandler.RequestUpload)
		clientGroup.GET("/:id/attachments", authMiddleware, attachmentHandler.ListAttachments)
	}

	programGroup := router.Group("/programs")
	{
		programGroup.GET("", programHandler.ListPrograms)
		programGroup.POST("", programHandler.CreateProgram)
		programGroup.PUT("/:id", programHandler.UpdateProgram)
		programGroup.DELETE("/:id", programHandler.DeleteProgram)
	}

	router.DELETE("/attachments/:id", authMiddleware, attachmentHandler.DeleteAttachment)
}
