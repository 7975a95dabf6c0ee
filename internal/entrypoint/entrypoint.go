package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/catalog"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/security"
	"github.com/mrlokans/library/internal/session"
	"github.com/mrlokans/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after the last request has been served
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// maintenanceJobs builds the periodic jobs. When queue is nil the work runs
// inline on the scheduler goroutine.
func maintenanceJobs(cfg *config.Config, queue *tasks.Client, repo tasks.OrphanAuthorsCleaner, auditService *audit.Service) []scheduler.Job {
	var jobs []scheduler.Job

	if cfg.Reconcile.Enabled {
		jobs = append(jobs, scheduler.Job{
			Name:     "reconcile_orphan_authors",
			Schedule: cfg.Reconcile.Schedule,
			Run: func(ctx context.Context) error {
				if queue != nil {
					_, err := queue.Enqueue(ctx, tasks.ReconcileOrphanAuthorsTask{Trigger: "schedule"})
					return err
				}
				_, err := tasks.ReconcileOrphanAuthors(ctx, repo, auditService)
				return err
			},
		})
	}

	if cfg.Audit.RetentionDays > 0 && cfg.Audit.CleanupSchedule != "" {
		jobs = append(jobs, scheduler.Job{
			Name:     "cleanup_audit_events",
			Schedule: cfg.Audit.CleanupSchedule,
			Run: func(ctx context.Context) error {
				task := tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}
				if queue != nil {
					_, err := queue.Enqueue(ctx, task)
					return err
				}
				return tasks.CleanupAuditEventsProcessor(auditService)(ctx, task)
			},
		})
	}

	return jobs
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	repo := catalog.NewRepository(db.DB)
	catalogService := library.NewService(repo, auditService)

	sqlDB, err := db.SQL()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := session.NewManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret, generated, err := security.ResolveSecret(cfg.Session.Secret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}
	if generated {
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}

	var taskClient *tasks.Client
	taskCtx, taskCtxCancel := context.WithCancel(context.Background())
	defer taskCtxCancel()
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewReconcileOrphanAuthorsQueue(repo, auditService),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)
		taskClient.Start(taskCtx)
	}

	sched := scheduler.New()
	for _, job := range maintenanceJobs(cfg, taskClient, repo, auditService) {
		if err := sched.Add(job); err != nil {
			log.Fatalf("Failed to schedule maintenance: %v", err)
		}
	}
	sched.Start(taskCtx)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:        catalogService,
		Database:       db,
		Stats:          repo,
		AuditService:   auditService,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		sched.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		taskCtxCancel()
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
