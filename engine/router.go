package engine

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Handler is the signature implemented by all route handlers.
// Handlers return a Response instead of writing to the wire directly,
// which keeps status codes visible to the request logger.
type Handler func(r *http.Request, ps httprouter.Params) Response

// Authenticator is implemented by the auth module and used to wrap handlers
// that need to know who the caller is.
type Authenticator interface {
	WithAuthn(Handler) Handler
	WithAdmin(Handler) Handler
}

type noopAuthenticator struct{}

func (noopAuthenticator) WithAuthn(fn Handler) Handler { return fn }
func (noopAuthenticator) WithAdmin(fn Handler) Handler { return fn }

type Router struct {
	router *httprouter.Router

	// Authenticator can be used to pass an authenticator implementation to other handlers.
	Authenticator
}

func NewRouter(notFound http.Handler) *Router {
	rtr := httprouter.New()
	if notFound != nil {
		rtr.NotFound = notFound
	}
	return &Router{router: rtr, Authenticator: noopAuthenticator{}}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, rr *http.Request) { r.router.ServeHTTP(w, rr) }

func (r *Router) Handle(method, path string, fn Handler) {
	r.router.Handle(method, path, func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		start := time.Now()
		resp := fn(req, ps)
		resp.write(w)
		slog.Info("http request", "url", req.URL.Path, "method", method, "userAgent", req.UserAgent(), "latencyMS", time.Since(start).Milliseconds(), "status", resp.Status)
	})
}

// Serve wires up the stdlib http server to the engine.
func (r *Router) Serve(addr string) Proc {
	return func(ctx context.Context) error {
		svr := &http.Server{Handler: r, Addr: addr}
		go func() {
			<-ctx.Done()
			slog.Warn("gracefully shutting down http server...")
			svr.Shutdown(context.Background())
		}()
		if err := svr.ListenAndServe(); err != nil {
			return err
		}
		slog.Info("the http server has shut down")
		return nil
	}
}
