package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/limbo/ceoos/internal/service"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mx          *chi.Mux
	srv         *http.Server
	userService service.UserServiceI
	rowsService service.RowsServiceI
	jwtService  JWTServiceI
}

type ServicesList struct {
	UserService service.UserServiceI
	RowsService service.RowsServiceI
	JwtService  JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:          chi.NewMux(),
		userService: servicesOptions.UserService,
		rowsService: servicesOptions.RowsService,
		jwtService:  servicesOptions.JwtService,
	}
	s.mountEndpoints()
	return s
}

func (s *Server) mountEndpoints() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Get("/health", s.Health)
	// serves the OpenAPI document registered by the docs package
	s.mx.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)
			r.Delete("/account", s.DeleteAccount)
			r.Get("/rows/{table}", s.ListRows)
			r.Get("/rows/{table}/one", s.GetRow)
			r.Post("/rows/{table}", s.CreateRow)
			r.Patch("/rows/{table}/{id}", s.UpdateRow)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run blocks until the server stops. A stop caused by Shutdown is not an
// error.
func (s *Server) Run(address string) error {
	s.srv = &http.Server{
		Addr:              address,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("api server started", slog.String("address", address))
	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.New("api server error: " + err.Error())
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
