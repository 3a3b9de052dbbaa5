package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/linyuhan/hotel-ops-backend/internal/api"
	"github.com/linyuhan/hotel-ops-backend/internal/auth"
	"github.com/linyuhan/hotel-ops-backend/internal/conflict"
	"github.com/linyuhan/hotel-ops-backend/internal/hotel"
	"github.com/linyuhan/hotel-ops-backend/internal/notify"
	"github.com/linyuhan/hotel-ops-backend/internal/order"
	"github.com/linyuhan/hotel-ops-backend/internal/room"
	"github.com/linyuhan/hotel-ops-backend/internal/roomstatus"
	"github.com/linyuhan/hotel-ops-backend/internal/user"
	"github.com/linyuhan/hotel-ops-backend/internal/waitlist"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	RedisClient  *redis.Client // may be nil
	Notifier     notify.Notifier

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	WaitlistConfirmWindow time.Duration
	WaitlistSweepInterval time.Duration
	AvailabilityCacheTTL  time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Sweeper    *waitlist.Sweeper
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Hotel Module
	hotelRepo := hotel.NewPgxRepository(cfg.DBPool)
	hotelService := hotel.NewService(hotelRepo)

	// Conflict Module: the detector reads active windows from the external
	// order subsystem.
	windowSource := order.NewPgxWindowSource(cfg.DBPool)
	detector := conflict.NewDetector(windowSource)
	conflictRepo := conflict.NewPgxRepository(cfg.DBPool)
	conflictService := conflict.NewService(detector, conflictRepo)

	// Waitlist Module
	waitlistRepo := waitlist.NewPgxRepository(cfg.DBPool)
	waitlistService := waitlist.NewService(waitlistRepo, detector, notifier, cfg.WaitlistConfirmWindow)

	// Room Status Module: promotes the waitlist when a room frees up.
	statusRepo := roomstatus.NewPgxRepository(cfg.DBPool)
	statusService := roomstatus.NewService(statusRepo, waitlistService, cfg.RedisClient, cfg.AvailabilityCacheTTL)

	// Room Module: room creation seeds the status row.
	roomRepo := room.NewPgxRepository(cfg.DBPool)
	roomService := room.NewService(roomRepo, hotelService, statusRepo)

	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		UserService:     userService,
		HotelService:    hotelService,
		RoomService:     roomService,
		ConflictService: conflictService,
		StatusService:   statusService,
		WaitlistService: waitlistService,
		JWTManager:      jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Sweeper:    waitlist.NewSweeper(waitlistService, cfg.WaitlistSweepInterval),
	}
}
