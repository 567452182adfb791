package main // Entry point package

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/school-attendance/internal/config"
	"github.com/iliyamo/school-attendance/internal/database"
	"github.com/iliyamo/school-attendance/internal/face"
	"github.com/iliyamo/school-attendance/internal/handler"
	"github.com/iliyamo/school-attendance/internal/middleware"
	"github.com/iliyamo/school-attendance/internal/queue"
	"github.com/iliyamo/school-attendance/internal/router"
	"github.com/iliyamo/school-attendance/internal/service"
	"github.com/iliyamo/school-attendance/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	persist, err := newPersister(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	roster, err := store.NewRoster(ctx, persist)
	if err != nil {
		log.Fatalf("roster load: %v", err)
	}
	ledger, err := store.NewLedger(ctx, persist)
	if err != nil {
		log.Fatalf("ledger load: %v", err)
	}
	liveness, err := store.NewLivenessStore(ctx, persist)
	if err != nil {
		log.Fatalf("liveness load: %v", err)
	}
	users, err := store.NewUsers(ctx, persist, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("users load: %v", err)
	}
	cascade := store.NewCascade(roster, ledger, liveness)

	var detector face.Detector
	if cfg.FaceSkip {
		log.Println("face detection disabled, using stub detector")
		detector = &face.StubDetector{Faces: 1}
	} else {
		detector = face.NewClient(cfg.FaceServiceURL, cfg.FaceTimeout)
	}
	gate := face.NewGate(detector, liveness, cfg.FaceTimeout)

	var events queue.Publisher
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		events = queue.NewAMQPPublisher()
		go queue.StartAuditConsumer() // drains attendance.audit into logs/audit.log
	} else {
		log.Println("no broker configured, audit events go to the process log")
		events = queue.LogPublisher{}
	}

	rosterSvc := service.NewRosterService(roster, cascade, users, events)
	attendanceSvc := service.NewAttendanceService(roster, ledger, liveness, gate, events)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, roster),
		Student:    handler.NewStudentHandler(rosterSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Face:       handler.NewFaceHandler(attendanceSvc),
		Teacher:    handler.NewTeacherHandler(users),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.Metrics())

	rdb := config.NewRedisClient() // nil when unreachable; cache and limiter fail open
	router.RegisterRoutes(e, h)
	router.RegisterAPI(e, h, cfg.JWTSecret, rdb, config.LoadCacheConfig(), config.LoadRateLimitConfig())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreBackend)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// newPersister selects the durable backend.  The jsonfile backend is
// the default and needs nothing but a writable directory.
func newPersister(ctx context.Context, cfg config.Config) (store.Persister, error) {
	if cfg.StoreBackend == "mysql" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return store.NewMySQLPersister(ctx, db)
	}
	return store.NewJSONFilePersister(cfg.DataDir)
}
