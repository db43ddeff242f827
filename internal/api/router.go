package api

import (
	routes "adazone/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, config map[string]string) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), config)

	// Setup zone system handlers
	routes.SetupSystemHandlers(api)

	// Setup network distance handlers
	routes.SetupRoutingHandlers(api, config["ors_api_key"])
}
