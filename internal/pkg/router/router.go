// Package router serves JSON endpoints on top of httprouter with the
// application middleware chain and response envelopes.
package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/greenvista/internal/pkg/authz"
	"github.com/shandysiswandi/greenvista/internal/pkg/config"
	"github.com/shandysiswandi/greenvista/internal/pkg/goerror"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/jwt"
	"github.com/shandysiswandi/greenvista/internal/pkg/uid"
	"github.com/shandysiswandi/greenvista/internal/pkg/validator"
)

// Messages shared by the authentication and authorization middlewares.
const (
	MsgAuthRequired = "Authentication required"
	MsgInvalidToken = "Invalid or expired token"
	MsgAccessDenied = "Access denied"
)

type errorResponse struct {
	Message string            `json:"message" example:"Invalid OTP"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message" example:"OTP sent to your email"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Handler returns a payload to encode or an error to map onto the error envelope.
//
// A payload may implement StatusCode() int, Message() string and
// Meta() map[string]any to shape the response.
type Handler func(r *Request) (any, error)

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that mws[0] is the outermost middleware.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Gate reports whether a role holds a scope.
type Gate interface {
	Allow(role string, scope authz.Scope) (bool, error)
}

// Config holds dependencies required to build a Router.
type Config struct {
	Config     config.Config
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	Gate       Gate
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr     *httprouter.Router
	gate   Gate
	mws    []Middleware
	public map[string]map[string]struct{}
}

// NewRouter builds the application router with the global middleware chain:
// recover, real IP, correlation id, observability, maintenance, authentication.
func NewRouter(cfg Config) *Router {
	if cfg.Instrument == nil {
		cfg.Instrument = instrument.NewNoop()
	}

	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	ro := &Router{
		hr:     hr,
		gate:   cfg.Gate,
		public: map[string]map[string]struct{}{},
	}
	ro.mws = []Middleware{
		middlewareRecoverer,
		middlewareIP,
		middlewareCorrelationID(cfg.UUID),
		middlewareObservability(cfg.Config, cfg.Instrument),
		middlewareMaintenance(cfg.Config),
		middlewareAuthentication(cfg.JWT, ro.isPublic),
	}

	ro.Public(http.MethodGet, "/health")
	ro.GET("/health", func(*Request) (any, error) {
		return healthResponse{Status: "ok"}, nil
	})

	return ro
}

type healthResponse struct {
	Status string `json:"status"`
}

func (healthResponse) Message() string { return "service is healthy" }

// Public marks method+path as reachable without a bearer token. The path is
// the route pattern, for example "/api/v1/requests/:id".
func (r *Router) Public(method, path string) {
	if r.public[method] == nil {
		r.public[method] = map[string]struct{}{}
	}
	r.public[method][path] = struct{}{}
}

func (r *Router) isPublic(method, path string) bool {
	_, ok := r.public[method][path]
	return ok
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	final := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			writeError(w, err)
			return
		}
		writeSuccess(w, resp)
	})

	all := make([]Middleware, 0, len(r.mws)+len(mws))
	all = append(all, r.mws...)
	all = append(all, mws...)

	r.hr.Handler(method, path, Chain(final, all...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeError(w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg()}

	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Values()
	} else if len(gerr.Fields()) > 0 {
		resp.Error = gerr.Fields()
	}

	writeJSON(w, resp, gerr.StatusCode())
}

func writeSuccess(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}

	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface{ Message() string }); ok {
		msg = m.Message()
	}

	var meta map[string]any
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		meta = m.Meta()
	}

	writeJSON(w, successResponse{Message: msg, Data: resp, Meta: meta}, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
