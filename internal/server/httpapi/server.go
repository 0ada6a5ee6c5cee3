// Package httpapi exposes the contact book services as a JSON HTTP API
// routed with chi.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserService is the account API the handlers and the auth middleware use.
// Authenticate must return common.ErrorUnauthorized for unknown tokens.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	UpdateCurrent(ctx context.Context, userID int64, in services.UpdateUserInput) (*models.User, error)
	Logout(ctx context.Context, userID int64) error
}

// ContactService is implemented by services.ContactService.
type ContactService interface {
	Create(ctx context.Context, userID int64, in services.ContactInput) (*models.Contact, error)
	Get(ctx context.Context, userID, contactID int64) (*models.Contact, error)
	Update(ctx context.Context, userID, contactID int64, in services.ContactInput) (*models.Contact, error)
	Delete(ctx context.Context, userID, contactID int64) error
	Search(ctx context.Context, userID int64, in services.SearchInput) (*models.Page[*models.Contact], error)
}

// AddressService is implemented by services.AddressService.
type AddressService interface {
	Create(ctx context.Context, userID, contactID int64, in services.AddressInput) (*models.Address, error)
	Get(ctx context.Context, userID, contactID, addressID int64) (*models.Address, error)
	Update(ctx context.Context, userID, contactID, addressID int64, in services.AddressInput) (*models.Address, error)
	Delete(ctx context.Context, userID, contactID, addressID int64) error
	List(ctx context.Context, userID, contactID int64) ([]*models.Address, error)
}

// Options tunes the HTTP server. Zero values fall back to defaults.
type Options struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// HTTPServer serves the JSON API on a single address.
type HTTPServer struct {
	address   string
	users     UserService
	contacts  ContactService
	addresses AddressService
	logger    logging.Logger
	opts      Options
}

// NewHTTPServer wires the services into a server that listens on address a
// once Run is called.
func NewHTTPServer(a string, l logging.Logger, us UserService, cs ContactService, as AddressService, opts Options) *HTTPServer {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		contacts:  cs,
		addresses: as,
		opts:      opts,
	}
}

// Router builds the full route tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.registerUser)
		r.Post("/users/login", s.loginUser)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/current", s.getCurrentUser)
			r.Patch("/users/current", s.updateCurrentUser)
			r.Delete("/users/logout", s.logoutUser)

			r.Post("/contacts", s.createContact)
			r.Get("/contacts", s.searchContacts)
			r.Get("/contacts/{contactID}", s.getContact)
			r.Put("/contacts/{contactID}", s.updateContact)
			r.Delete("/contacts/{contactID}", s.deleteContact)

			r.Post("/contacts/{contactID}/addresses", s.createAddress)
			r.Get("/contacts/{contactID}/addresses", s.listAddresses)
			r.Get("/contacts/{contactID}/addresses/{addressID}", s.getAddress)
			r.Put("/contacts/{contactID}/addresses/{addressID}", s.updateAddress)
			r.Delete("/contacts/{contactID}/addresses/{addressID}", s.deleteAddress)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
