package http

import (
	"net/http"

	"mediconnect/internal/delivery/http/handler"
	"mediconnect/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	appointmentHandler  *handler.AppointmentHandler
	doctorHandler       *handler.DoctorHandler
	prescriptionHandler *handler.PrescriptionHandler
	chatbotHandler      *handler.ChatbotHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	rateLimiter         *middleware.RateLimitMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	chatbotHandler *handler.ChatbotHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		appointmentHandler:  appointmentHandler,
		doctorHandler:       doctorHandler,
		prescriptionHandler: prescriptionHandler,
		chatbotHandler:      chatbotHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		rateLimiter:         rateLimiter,
	}
}

// Setup wires the route table. Authentication is applied globally; the
// middleware's exempt list keeps the credential endpoints and health
// check reachable without a session.
func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public, rate limited)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.rateLimiter.Handle)
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/user", r.authHandler.CurrentUser).Methods(http.MethodGet)

	// Appointments
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Handle("/book", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.Book))).Methods(http.MethodPost)
	appointments.HandleFunc("/my-appointments", r.appointmentHandler.MyAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/upcoming", r.appointmentHandler.Upcoming).Methods(http.MethodGet)
	appointments.HandleFunc("/dashboard-stats", r.appointmentHandler.DashboardStats).Methods(http.MethodGet)
	appointments.HandleFunc("/doctors", r.appointmentHandler.ListDoctors).Methods(http.MethodGet)
	appointments.HandleFunc("/doctor-availability/{doctorId}", r.appointmentHandler.DoctorAvailability).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Cancel).Methods(http.MethodDelete)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPut)

	doctorBooked := api.PathPrefix("/appointments/doctor").Subrouter()
	doctorBooked.Use(middleware.RequireDoctor)
	doctorBooked.HandleFunc("/booked", r.appointmentHandler.DoctorBooked).Methods(http.MethodGet)

	// Doctor profile
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/dashboard", r.doctorHandler.Dashboard).Methods(http.MethodGet)
	doctor.HandleFunc("/profile", r.doctorHandler.UpdateProfile).Methods(http.MethodPut)

	api.HandleFunc("/doctors/{id}", r.doctorHandler.Get).Methods(http.MethodGet)

	// Prescriptions
	prescriptions := api.PathPrefix("/prescriptions").Subrouter()
	prescriptions.Handle("", middleware.RequireDoctor(http.HandlerFunc(r.prescriptionHandler.Create))).Methods(http.MethodPost)
	prescriptions.HandleFunc("/my", r.prescriptionHandler.MyPrescriptions).Methods(http.MethodGet)
	prescriptions.Handle("/pharmacy", middleware.RequirePharmacy(http.HandlerFunc(r.prescriptionHandler.PharmacyQueue))).Methods(http.MethodGet)
	prescriptions.HandleFunc("/{id}", r.prescriptionHandler.Get).Methods(http.MethodGet)
	prescriptions.Handle("/{id}/status", middleware.RequirePharmacy(http.HandlerFunc(r.prescriptionHandler.UpdateStatus))).Methods(http.MethodPut)

	// Chatbot (any authenticated role)
	chatbot := api.PathPrefix("/chatbot").Subrouter()
	chatbot.HandleFunc("/chat", r.chatbotHandler.Chat).Methods(http.MethodPost)
	chatbot.HandleFunc("/status", r.chatbotHandler.Status).Methods(http.MethodGet)

	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.authMiddleware.Authenticate)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
