package api

import (
	"net/http"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	clientService service.ClientService,
	membershipService service.MembershipService,
) {
	authHandler := NewAuthHandler(authService)
	clientHandler := NewClientHandler(clientService)
	membershipHandler := NewMembershipHandler(membershipService)

	authMiddleware := AuthMiddleware(authService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}

		// Public: a client looks themselves up, visitors see the plan cards.
		apiV1.GET("/clients/status", clientHandler.LookupStatus)
		apiV1.GET("/memberships", membershipHandler.ListMemberships)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		// --- Front desk ---
		staff := protected.Group("")
		staff.Use(RoleMiddleware(domain.RoleStaff))
		{
			staff.GET("/clients", clientHandler.ListClients)
			staff.POST("/clients", clientHandler.RegisterClient)
			staff.PATCH("/clients/:name", clientHandler.UpdateClient)
			staff.DELETE("/clients/:name", clientHandler.RemoveClient)

			staff.PUT("/memberships", membershipHandler.SaveMembership)
			staff.DELETE("/memberships/:name", membershipHandler.RemoveMembership)
			staff.PUT("/memberships/:name/recommended", membershipHandler.Recommend)
		}
	}
}
