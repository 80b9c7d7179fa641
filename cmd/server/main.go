package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/auth"
	"github.com/minafarid/academic-records-api/internal/config"
	"github.com/minafarid/academic-records-api/internal/database"
	"github.com/minafarid/academic-records-api/internal/handler"
	"github.com/minafarid/academic-records-api/internal/middleware"
	"github.com/minafarid/academic-records-api/internal/queue"
	"github.com/minafarid/academic-records-api/internal/repository"
	"github.com/minafarid/academic-records-api/internal/router"
	"github.com/minafarid/academic-records-api/internal/utils"
)

func main() {
	// .env is a convenience for local runs; absence is fine, config.Load
	// still enforces the required variables.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; without it the cache, rate limiter and role cache
	// simply switch off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache, rate limiting and role cache disabled")
	}

	users := repository.NewUserRepo(db)
	departments := repository.NewDepartmentRepo(db)
	lecturers := repository.NewLecturerRepo(db)
	courses := repository.NewCourseRepo(db)
	profiles := repository.NewProfileRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)

	issuer := utils.Issuer{
		AccessSecret:   cfg.AccessSecret,
		RefreshSecret:  cfg.RefreshSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
	}
	sessions := auth.NewService(users, issuer)

	authHandler := handler.NewAuthHandler(sessions)
	profileHandler := handler.NewProfileHandler(cfg, users, profiles)
	recordsHandler := handler.NewRecordsHandler(departments, lecturers, courses, profiles, enrollments)
	catalogHandler := handler.NewCatalogHandler(departments, courses)

	// The authorization gate reads roles from the store on every request;
	// the Redis wrapper only fronts it when a bounded TTL is configured.
	var roles middleware.RoleSource = users
	if rdb != nil && cfg.RoleCacheTTL > 0 {
		roles = &middleware.CachedRoleSource{Next: users, RDB: rdb, TTL: cfg.RoleCacheTTL}
	}

	meta := middleware.NewMetaRegistry()
	e := echo.New()
	e.HideBanner = true

	// Order matters: rate limiting first, then authentication, then
	// authorization. The role gate can assume an identity is in context
	// whenever a role set is declared.
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.AuthGate(meta, issuer))
	e.Use(middleware.RoleGate(meta, roles))

	cacheMW := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	router.Register(e, meta, authHandler, profileHandler, recordsHandler, catalogHandler, cacheMW)

	go queue.StartEnrollmentConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
