package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/haneul-dev/seat-roulette/internal/config"
	"github.com/haneul-dev/seat-roulette/internal/database"
	"github.com/haneul-dev/seat-roulette/internal/draw"
	"github.com/haneul-dev/seat-roulette/internal/handler"
	"github.com/haneul-dev/seat-roulette/internal/middleware"
	"github.com/haneul-dev/seat-roulette/internal/queue"
	"github.com/haneul-dev/seat-roulette/internal/repository"
	"github.com/haneul-dev/seat-roulette/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	classrooms := repository.NewClassroomRepo(db)
	students := repository.NewStudentRepo(db)
	seats := repository.NewSeatRepo(db)
	relations := repository.NewRelationRepo(db)
	fixed := repository.NewFixedAssignmentRepo(db)
	assignments := repository.NewAssignmentRepo(db)

	// Draw orchestration
	drawSvc := draw.NewService(classrooms, students, seats, relations, fixed, assignments)
	drawSvc.HighlightTick = time.Duration(cfg.HighlightTickMs) * time.Millisecond
	drawSvc.MaxAttempts = cfg.DrawMaxAttempts

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	teacherHandler := handler.NewTeacherHandler(classrooms, students, seats, relations, fixed, assignments, drawSvc)

	e := echo.New()

	// Redis-backed token-bucket rate limiting on everything; the layout
	// endpoint additionally goes through the response cache.
	rlCfg := config.LoadRateLimitConfig()
	if rlCfg.Enabled && rdb != nil {
		e.Use(middleware.NewTokenBucket(rlCfg, rdb))
	}
	var cacheMW echo.MiddlewareFunc
	cacheCfg := config.LoadCacheConfig()
	if cacheCfg.Enabled && rdb != nil {
		cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterTeacher(e, teacherHandler, cfg.JWTSecret, cacheMW)

	// Assignment log consumer; reconnects on its own.
	go queue.StartAssignmentConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
