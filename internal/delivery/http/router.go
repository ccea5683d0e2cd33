package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"itineraryplanner/internal/delivery/http/controllers"
	"itineraryplanner/internal/delivery/http/middleware"
	"itineraryplanner/internal/domain"
)

// Controllers bundles the controllers the router wires up.
type Controllers struct {
	Auth         *controllers.AuthController
	Events       *controllers.EventController
	Notification *controllers.NotificationController
	Reminders    *controllers.ReminderController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except signup, login and swagger requires a Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /auth/me", auth(c.Auth.Me))

	// Events
	mux.HandleFunc("POST /events", auth(c.Events.CreateEvent))
	mux.HandleFunc("GET /events", auth(c.Events.ListEvents))
	mux.HandleFunc("POST /events/check", auth(c.Events.CheckAvailability))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Events.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Events.DeleteEvent))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(c.Notification.List))
	mux.HandleFunc("GET /notifications/unread-count", auth(c.Notification.UnreadCount))
	mux.HandleFunc("POST /notifications/{notificationID}/read", auth(c.Notification.MarkRead))

	// Reminders
	mux.HandleFunc("POST /reminders/watch", auth(c.Reminders.Watch))
	mux.HandleFunc("DELETE /reminders/watch", auth(c.Reminders.Unwatch))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
