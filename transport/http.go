package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	adminapp "github.com/muhammadheryan/landing-api/application/admin"
	contactapp "github.com/muhammadheryan/landing-api/application/contact"
	"github.com/muhammadheryan/landing-api/cmd/config"
	"github.com/muhammadheryan/landing-api/constant"
	"github.com/muhammadheryan/landing-api/model"
	utilsContext "github.com/muhammadheryan/landing-api/utils/context"
	"github.com/muhammadheryan/landing-api/utils/errors"
	"github.com/muhammadheryan/landing-api/utils/logger"
	validatorx "github.com/muhammadheryan/landing-api/utils/validator"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RestHandler struct {
	ContactApp    contactapp.ContactApp
	AdminApp      adminapp.AdminApp
	DB            Pinger
	FallbackEmail string
}

func NewTransport(cfg *config.Config, ContactApp contactapp.ContactApp, AdminApp adminapp.AdminApp, db Pinger) http.Handler {
	mux := mux.NewRouter()

	rh := &RestHandler{
		ContactApp:    ContactApp,
		AdminApp:      AdminApp,
		DB:            db,
		FallbackEmail: cfg.Contact.FallbackEmail,
	}

	// Swagger UI
	mux.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	mux.HandleFunc("/healthz", rh.Healthz).Methods(http.MethodGet)

	// Public contact intake
	contact := mux.PathPrefix("/contact").Subrouter()
	contact.Use(CORSMiddleware())
	contact.HandleFunc("", rh.Contact).Methods(http.MethodPost)
	contact.HandleFunc("", rh.ContactPreflight).Methods(http.MethodOptions)

	// Admin
	mux.HandleFunc("/admin/login", rh.Login).Methods(http.MethodPost)
	mux.HandleFunc("/admin/logout", rh.Logout).Methods(http.MethodPost)
	mux.HandleFunc("/admin", rh.ListSubmissions).Methods(http.MethodGet)
	mux.HandleFunc("/admin", rh.UpdateStatus).Methods(http.MethodPost)
	mux.HandleFunc("/admin/submissions", rh.ListSubmissions).Methods(http.MethodGet)
	mux.HandleFunc("/admin/submissions/status", rh.UpdateStatus).Methods(http.MethodPost)
	mux.HandleFunc("/admin/submissions/{id}", rh.GetSubmission).Methods(http.MethodGet)

	// middleware
	mux.Use(LoggingMiddleware(cfg.Server.TrustProxyHeaders))
	mux.Use(RecoveryMiddleware(cfg.Contact.FallbackEmail))
	mux.Use(AuthMiddleware(AdminApp))

	return mux
}

// Contact handler
// @Summary Submit the contact form
// @Description Accepts JSON, urlencoded or multipart bodies. At least one of email or phone is required.
// @Tags Contact
// @Accept json
// @Accept x-www-form-urlencoded
// @Accept mpfd
// @Produce json
// @Param request body model.ContactRequest true "Contact Request"
// @Success 200 {object} model.ContactResponse
// @Failure 400 {object} model.ContactResponse
// @Failure 429 {object} model.ContactResponse
// @Failure 500 {object} model.ContactResponse
// @Router /contact [post]
func (s *RestHandler) Contact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := utilsContext.GetClientID(ctx)

	// the limiter runs before the body is even read
	if err := s.ContactApp.Allow(ctx, clientID); err != nil {
		s.writeError(w, err)
		return
	}

	fields, err := decodeFields(w, r)
	if err != nil {
		logger.Info("[Contact] unreadable body", zap.String("client", clientID), zap.String("error", err.Error()))
		s.writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.ContactApp.Submit(ctx, clientID, contactRequestFrom(fields))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ContactPreflight answers the CORS preflight for /contact.
// @Summary CORS preflight
// @Tags Contact
// @Success 204
// @Router /contact [options]
func (s *RestHandler) ContactPreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusNoContent)
}

// Login handler
// @Summary Admin login
// @Description Login with the admin credentials and receive a JWT token
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login Request"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ContactResponse
// @Failure 401 {object} model.ContactResponse
// @Router /admin/login [post]
func (s *RestHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, err := decodeFields(w, r)
	if err != nil {
		s.writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	req := model.LoginRequest{Username: fields["username"], Password: fields["password"]}

	if err := validatorx.ValidateStruct(&req); err != nil {
		s.writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.AdminApp.Login(ctx, &req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Logout handler
// @Summary Admin logout
// @Tags Admin
// @Produce json
// @Success 200 {object} model.ContactResponse
// @Failure 401 {object} model.ContactResponse
// @Router /admin/logout [post]
// @Security BearerAuth
func (s *RestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := bearerToken(r)
	if err := s.AdminApp.Logout(r.Context(), token); err != nil {
		s.writeError(w, err)
		return
	}
	writeSuccess(w, model.ContactResponse{Success: true, Message: "logged out"})
}

// ListSubmissions handler
// @Summary List submissions
// @Description All submissions, newest first
// @Tags Admin
// @Produce json
// @Success 200 {object} model.SubmissionListResponse
// @Failure 401 {object} model.ContactResponse
// @Router /admin/submissions [get]
// @Security BearerAuth
func (s *RestHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	items, err := s.AdminApp.ListSubmissions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeSuccess(w, model.SubmissionListResponse{Success: true, Submissions: items})
}

// GetSubmission handler
// @Summary Get one submission
// @Tags Admin
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} model.SubmissionResponse
// @Failure 404 {object} model.ContactResponse
// @Router /admin/submissions/{id} [get]
// @Security BearerAuth
func (s *RestHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, err := s.AdminApp.GetSubmission(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeSuccess(w, model.SubmissionResponse{Success: true, Submission: item})
}

// UpdateStatus handler
// @Summary Change the status of a submission
// @Description Any status may follow any other; repeating a status only refreshes updated_at.
// @Tags Admin
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param request body model.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} model.SubmissionResponse
// @Failure 400 {object} model.ContactResponse
// @Failure 404 {object} model.ContactResponse
// @Router /admin/submissions/status [post]
// @Security BearerAuth
func (s *RestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, err := decodeFields(w, r)
	if err != nil {
		s.writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	req := updateStatusRequestFrom(fields)

	if err := validatorx.ValidateStruct(req); err != nil {
		s.writeError(w, errors.SetValidationError(validatorx.Messages(err)))
		return
	}

	item, err := s.AdminApp.UpdateStatus(ctx, req.ID, constant.SubmissionStatus(req.Status))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeSuccess(w, model.SubmissionResponse{Success: true, Submission: item})
}

// Healthz handler
// @Summary Liveness and database check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (s *RestHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeSuccess(w, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		logger.Error("[Healthz] err db.PingContext", zap.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeSuccess(w, map[string]string{"status": "ok"})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}
