package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/linyuhan/hotel-ops-backend/internal/auth"
	"github.com/linyuhan/hotel-ops-backend/internal/conflict"
	conflictHttp "github.com/linyuhan/hotel-ops-backend/internal/conflict/http"
	"github.com/linyuhan/hotel-ops-backend/internal/hotel"
	hotelHttp "github.com/linyuhan/hotel-ops-backend/internal/hotel/http"
	"github.com/linyuhan/hotel-ops-backend/internal/room"
	roomHttp "github.com/linyuhan/hotel-ops-backend/internal/room/http"
	"github.com/linyuhan/hotel-ops-backend/internal/roomstatus"
	statusHttp "github.com/linyuhan/hotel-ops-backend/internal/roomstatus/http"
	"github.com/linyuhan/hotel-ops-backend/internal/user"
	userHttp "github.com/linyuhan/hotel-ops-backend/internal/user/http"
	"github.com/linyuhan/hotel-ops-backend/internal/waitlist"
	waitlistHttp "github.com/linyuhan/hotel-ops-backend/internal/waitlist/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService     user.Service
	HotelService    hotel.Service
	RoomService     room.Service
	ConflictService conflict.Service
	StatusService   roomstatus.Service
	WaitlistService waitlist.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware and registers all module routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:8081"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	staffMiddleware := RequireStaff(cfg.UserService)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	hotelHandler := hotelHttp.NewHandler(cfg.HotelService)
	roomHandler := roomHttp.NewHandler(cfg.RoomService)
	conflictHandler := conflictHttp.NewHandler(cfg.ConflictService)
	statusHandler := statusHttp.NewHandler(cfg.StatusService)
	waitlistHandler := waitlistHttp.NewHandler(cfg.WaitlistService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		hotelHttp.RegisterRoutes(v1, hotelHandler, authMiddleware, staffMiddleware)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware, staffMiddleware)
		conflictHttp.RegisterRoutes(v1, conflictHandler, authMiddleware, staffMiddleware)
		statusHttp.RegisterRoutes(v1, statusHandler, authMiddleware, staffMiddleware)
		waitlistHttp.RegisterRoutes(v1, waitlistHandler, authMiddleware, staffMiddleware)
	}

	return r
}
