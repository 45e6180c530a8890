package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"garden-store/internal/config"
	"garden-store/internal/handler"
	"garden-store/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// uploadsDir is served under /static/uploads/ when photos are stored locally;
// pass an empty string when S3 serves them instead.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	adminCfg config.AdminConfig,
	staticDir string,
	uploadsDir string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	requireAdmin := middleware.RequireAdmin(logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/products" || r.URL.Path == "/api/products/"

		switch {
		case collection && r.Method == http.MethodGet:
			productHandler.List(w, r)
		case collection && r.Method == http.MethodPost:
			requireAdmin(productHandler.Create)(w, r)
		case !collection && r.Method == http.MethodGet:
			productHandler.GetByID(w, r)
		case !collection && r.Method == http.MethodPut:
			requireAdmin(productHandler.Update)(w, r)
		case !collection && r.Method == http.MethodDelete:
			requireAdmin(productHandler.Delete)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart handler function
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/cart" || r.URL.Path == "/api/cart/"

		switch {
		case collection && r.Method == http.MethodGet:
			cartHandler.View(w, r)
		case collection && r.Method == http.MethodPost:
			cartHandler.Add(w, r)
		case collection && r.Method == http.MethodDelete:
			cartHandler.Clear(w, r)
		case !collection && r.Method == http.MethodDelete:
			cartHandler.Remove(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/"

		switch {
		case collection && r.Method == http.MethodPost:
			orderHandler.Create(w, r)
		case !collection && r.Method == http.MethodGet:
			requireAdmin(orderHandler.GetByID)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Locally stored product photos
	if uploadsDir != "" {
		mux.Handle("/static/uploads/", http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	// Storefront SPA: serve built assets, falling back to index.html so
	// client-side routes resolve. Unknown /api paths stay JSON 404s.
	mux.HandleFunc("/", spaHandler(staticDir))

	// Apply middleware in order: Recovery -> Logging -> CORS -> AdminContext -> CartSession
	var h http.Handler = mux
	h = middleware.CartSession(h)
	h = middleware.AdminContext(adminCfg, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}

func spaHandler(staticDir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(staticDir))

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "not found"}`))
			return
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		path := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	}
}
