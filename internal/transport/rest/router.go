package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/itcentralng/dhf-hrapp-backend/internal/auth"
	"github.com/itcentralng/dhf-hrapp-backend/internal/earlyclosure"
	"github.com/itcentralng/dhf-hrapp-backend/internal/evaluation"
	"github.com/itcentralng/dhf-hrapp-backend/internal/message"
	"github.com/itcentralng/dhf-hrapp-backend/internal/studyleave"
	"github.com/itcentralng/dhf-hrapp-backend/internal/transport/middleware"
	"github.com/itcentralng/dhf-hrapp-backend/internal/transport/swagger"
	"github.com/itcentralng/dhf-hrapp-backend/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	messageHandler *message.Handler,
	earlyClosureHandler *earlyclosure.Handler,
	studyLeaveHandler *studyleave.Handler,
	evaluationHandler *evaluation.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Login is the only public user route
		r.Post("/users/login", authHandler.Login)

		// Protected routes that require authentication. Role gating lives in
		// the services, next to the workflow tables.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Post("/", userHandler.CreateUser)
				ur.Get("/me", userHandler.GetCurrentUser)
				ur.Patch("/password", userHandler.ChangePassword)
			})

			pr.Route("/messages", func(mr chi.Router) {
				mr.Post("/", messageHandler.CreateMessage)
				mr.Post("/upload-document/", messageHandler.UploadDocument)
				mr.Get("/inbox/", messageHandler.GetInbox)
				mr.Get("/outbox/", messageHandler.GetOutbox)
				mr.Post("/comment/", messageHandler.CreateComment)

				mr.Put("/respond-to-leave-request", messageHandler.RespondToLeaveRequest)
				mr.Get("/view-all-leave-requests", messageHandler.ViewAllLeaveRequests)
				mr.Post("/share-leave-request", messageHandler.ShareLeaveRequest)

				mr.Post("/perform-evaluation", evaluationHandler.Create)
				mr.Get("/evaluations", evaluationHandler.List)

				mr.Post("/submit-early-closure", earlyClosureHandler.Submit)
				mr.Put("/respond-early-closure/{id}/{stage}", earlyClosureHandler.Respond)
				mr.Get("/early-closures", earlyClosureHandler.List)
				mr.Get("/early-closures/{id}", earlyClosureHandler.Get)

				mr.Post("/submit-study-leave", studyLeaveHandler.Submit)
				mr.Put("/respond-study-leave/{id}/{stage}", studyLeaveHandler.Respond)
				mr.Get("/study-leaves", studyLeaveHandler.List)
				mr.Get("/study-leaves/{id}", studyLeaveHandler.Get)
			})
		})
	})
}
