package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"anoa.com/unimanage/internal/auth"
	"anoa.com/unimanage/internal/config"
	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/middleware"
	"anoa.com/unimanage/pkg/ratelimiter"
	"anoa.com/unimanage/pkg/storage"

	adminHttp "anoa.com/unimanage/internal/modules/admin/delivery/http"
	adminService "anoa.com/unimanage/internal/modules/admin/service"

	courseHttp "anoa.com/unimanage/internal/modules/course/delivery/http"
	courseRepo "anoa.com/unimanage/internal/modules/course/repository"
	courseService "anoa.com/unimanage/internal/modules/course/service"

	enrollmentHttp "anoa.com/unimanage/internal/modules/enrollment/delivery/http"
	enrollmentRepo "anoa.com/unimanage/internal/modules/enrollment/repository"
	enrollmentService "anoa.com/unimanage/internal/modules/enrollment/service"

	materialHttp "anoa.com/unimanage/internal/modules/material/delivery/http"
	materialRepo "anoa.com/unimanage/internal/modules/material/repository"
	materialService "anoa.com/unimanage/internal/modules/material/service"

	noticeHttp "anoa.com/unimanage/internal/modules/notice/delivery/http"
	noticeRepo "anoa.com/unimanage/internal/modules/notice/repository"
	noticeService "anoa.com/unimanage/internal/modules/notice/service"

	resultHttp "anoa.com/unimanage/internal/modules/result/delivery/http"
	resultRepo "anoa.com/unimanage/internal/modules/result/repository"
	resultService "anoa.com/unimanage/internal/modules/result/service"

	searchHttp "anoa.com/unimanage/internal/modules/search/delivery/http"
	searchService "anoa.com/unimanage/internal/modules/search/service"

	studentHttp "anoa.com/unimanage/internal/modules/student/delivery/http"
	studentRepo "anoa.com/unimanage/internal/modules/student/repository"
	studentService "anoa.com/unimanage/internal/modules/student/service"

	userHttp "anoa.com/unimanage/internal/modules/user/delivery/http"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	userService "anoa.com/unimanage/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Repositories is the storage layer the server is built on.
type Repositories struct {
	Users       userRepo.UserRepository
	Students    studentRepo.StudentRepository
	Courses     courseRepo.CourseRepository
	Enrollments enrollmentRepo.EnrollmentRepository
	Notices     noticeRepo.NoticeRepository
	Materials   materialRepo.MaterialRepository
	Results     resultRepo.ResultRepository
}

func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:       userRepo.NewUserRepository(db),
		Students:    studentRepo.NewStudentRepository(db),
		Courses:     courseRepo.NewCourseRepository(db),
		Enrollments: enrollmentRepo.NewEnrollmentRepository(db),
		Notices:     noticeRepo.NewNoticeRepository(db),
		Materials:   materialRepo.NewMaterialRepository(db),
		Results:     resultRepo.NewResultRepository(db),
	}
}

// Dependencies are the external resources the server needs. Redis, Meili
// and Storage may be nil; the features behind them degrade accordingly.
type Dependencies struct {
	Repos   *Repositories
	Redis   *redis.Client
	Meili   meilisearch.ServiceManager
	Storage storage.FileStorage
	Revoker auth.SessionRevoker
	// LocalUploadDir is served under /uploads when set.
	LocalUploadDir string
}

type Server struct {
	engine *gin.Engine
}

func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	revoker := deps.Revoker
	if revoker == nil {
		log.Println("WARNING: no shared revocation store, sessions are revoked in this process only")
		revoker = auth.NewMemoryRevoker(issuer.TTL())
	}

	repos := deps.Repos
	limiter := ratelimiter.New(deps.Redis)
	searchSvc := searchService.NewSearchService(deps.Meili)

	authSvc := userService.NewAuthService(repos.Users, issuer, limiter, cfg.RateLimitLogin)
	authHandler := userHttp.NewAuthHandler(authSvc)

	studentSvc := studentService.NewStudentService(repos.Students)
	profiles := studentService.NewCallerProfiles(studentSvc, repos.Users)
	studentHandler := studentHttp.NewStudentHandler(studentSvc, profiles)

	adminSvc := adminService.NewAdminService(repos.Users, repos.Students, studentSvc, revoker, cfg.ProvisionDefaultPassword)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	courseSvc := courseService.NewCourseService(repos.Courses)
	courseHandler := courseHttp.NewCourseHandler(courseSvc)

	enrollmentSvc := enrollmentService.NewEnrollmentService(repos.Enrollments, repos.Students, repos.Courses, profiles)
	enrollmentHandler := enrollmentHttp.NewEnrollmentHandler(enrollmentSvc)

	noticeSvc := noticeService.NewNoticeService(repos.Notices, deps.Redis, searchSvc)
	noticeHandler := noticeHttp.NewNoticeHandler(noticeSvc, deps.Redis, cfg.AllowedOrigins)

	materialSvc := materialService.NewMaterialService(repos.Materials, repos.Courses, deps.Storage, searchSvc)
	materialHandler := materialHttp.NewMaterialHandler(materialSvc)

	resultSvc := resultService.NewResultService(repos.Results, repos.Students, repos.Courses, profiles, deps.Storage)
	resultHandler := resultHttp.NewResultHandler(resultSvc)

	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/", health)
	router.GET("/health", health)

	if deps.LocalUploadDir != "" {
		router.Static("/uploads", deps.LocalUploadDir)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	authMiddleware := middleware.NewAuthMiddleware(issuer, revoker)
	staff := authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher)

	api := router.Group("/api")

	// Public routes (no auth required)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", middleware.RateLimitByIP(limiter, "register", cfg.RateLimitRegister), authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/provision-from-students", authMiddleware.RequireAdmin(), adminHandler.ProvisionFromStudents)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:id/approve", adminHandler.ApproveUser)
			adminGroup.PUT("/users/:id/reject", adminHandler.RejectUser)
			adminGroup.GET("/stats", adminHandler.Stats)
		}

		students := protected.Group("/students")
		{
			students.GET("", staff, studentHandler.GetStudents)
			students.GET("/me", studentHandler.GetMyStudent)
			students.GET("/:id", staff, studentHandler.GetStudent)
			students.POST("", authMiddleware.RequireAdmin(), studentHandler.CreateStudent)
			students.PUT("/:id", authMiddleware.RequireAdmin(), studentHandler.UpdateStudent)
			students.DELETE("/:id", authMiddleware.RequireAdmin(), studentHandler.DeleteStudent)
		}

		courses := protected.Group("/courses")
		{
			courses.GET("", courseHandler.GetCourses)
			courses.GET("/:id", courseHandler.GetCourse)
			courses.POST("", authMiddleware.RequireAdmin(), courseHandler.CreateCourse)
			courses.PUT("/:id", authMiddleware.RequireAdmin(), courseHandler.UpdateCourse)
			courses.DELETE("/:id", authMiddleware.RequireAdmin(), courseHandler.DeleteCourse)
		}

		enrollments := protected.Group("/enrollments")
		{
			enrollments.GET("", enrollmentHandler.GetEnrollments)
			enrollments.POST("", staff, enrollmentHandler.CreateEnrollment)
			enrollments.PUT("/:id", staff, enrollmentHandler.UpdateEnrollment)
			enrollments.DELETE("/:id", staff, enrollmentHandler.DeleteEnrollment)
		}

		notices := protected.Group("/notices")
		{
			notices.GET("", noticeHandler.GetNotices)
			notices.GET("/ws", noticeHandler.Stream)
			notices.POST("", staff, noticeHandler.CreateNotice)
			notices.PUT("/:id", staff, noticeHandler.UpdateNotice)
			notices.DELETE("/:id", staff, noticeHandler.DeleteNotice)
		}

		materials := protected.Group("/materials")
		{
			materials.GET("/:courseId", materialHandler.GetMaterials)
			materials.POST("/:courseId", staff, materialHandler.CreateMaterial)
			materials.DELETE("/:courseId/:id", staff, materialHandler.DeleteMaterial)
		}

		results := protected.Group("/results")
		{
			results.POST("/upload", authMiddleware.RequireAdmin(), resultHandler.UploadResult)
			results.POST("/internal", staff, resultHandler.UpsertMark)
			results.GET("/mine", resultHandler.GetMyResults)
			results.GET("/:studentId/pdfs", authMiddleware.RequireAdmin(), resultHandler.GetStudentPDFs)
			results.GET("/:studentId/marks", authMiddleware.RequireAdmin(), resultHandler.GetStudentMarks)
		}

		protected.GET("/search", searchHandler.Search)
	}

	return &Server{engine: router}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
