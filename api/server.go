package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/lehoangphuc/vietshop-BE/internal/shipment"
	"github.com/lehoangphuc/vietshop-BE/internal/shipping"
	"github.com/lehoangphuc/vietshop-BE/internal/util"
	"github.com/lehoangphuc/vietshop-BE/internal/worker"
)

type Server struct {
	router          *gin.Engine
	dbStore         db.Store
	config          *util.Config
	shippingService *shipping.Service
	shipmentManager *shipment.Manager
	taskDistributor worker.TaskDistributor
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(
	store db.Store,
	config *util.Config,
	shippingService *shipping.Service,
	shipmentManager *shipment.Manager,
	taskDistributor worker.TaskDistributor,
) *Server {
	server := &Server{
		dbStore:         store,
		config:          config,
		shippingService: shippingService,
		shipmentManager: shipmentManager,
		taskDistributor: taskDistributor,
	}

	server.setupRouter()
	return server
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	gin.ForceConsoleColor()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/v1")

	v1.POST("/shipping/fee", server.calculateShippingFee)
	v1.GET("/shipping/providers", server.listShippingProviders)
	v1.GET("/shipping/provinces", server.listProvinces)
	v1.GET("/shipping/districts", server.listDistricts)
	v1.GET("/shipping/wards", server.listWards)
	v1.POST("/shipping/locations/sync", server.syncLocations)

	v1.POST("/orders/:id/shipment", server.createOrderShipment)
	v1.GET("/orders/:id/shipment", server.getOrderShipment)
	v1.POST("/orders/:id/shipment/label", server.getShipmentLabel)
	v1.POST("/orders/:id/shipment/cancel", server.cancelOrderShipment)

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
