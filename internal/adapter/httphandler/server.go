package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultRequestTimeout = 5 * time.Second

type Services interface {
	CatalogService
	CartService
	WishlistService
	AccountService
	CheckoutService
	AdminService
	ContactService
}

type MetricsCollector interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// NewRouter registers every route on a new mux. With a non-nil collector
// requests are measured and GET /metrics is served.
func NewRouter(svc Services, mc MetricsCollector) http.Handler {
	mux := http.NewServeMux()
	RegisterCatalog(mux, svc)
	RegisterCart(mux, svc)
	RegisterWishlist(mux, svc)
	RegisterAccount(mux, svc)
	RegisterCheckout(mux, svc)
	RegisterAdmin(mux, svc)
	RegisterContact(mux, svc)

	var handler http.Handler = mux
	if mc != nil {
		mux.Handle("GET /metrics", mc.Handler())
		handler = mc.Middleware(mux)
	}
	return Session(AllowJSON(handler))
}

type HTTPServer struct {
	httpServer *http.Server
}

type ServerOpt func(*serverOpts)

type serverOpts struct {
	requestTimeout time.Duration
}

func RequestTimeoutOpt(d time.Duration) ServerOpt {
	return func(o *serverOpts) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

func NewHTTPServer(addr string, handler http.Handler, opts ...ServerOpt) HTTPServer {
	options := serverOpts{requestTimeout: defaultRequestTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	handler = http.TimeoutHandler(handler, options.requestTimeout, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
