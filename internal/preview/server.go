package preview

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/codeblock"
	"github.com/pkg/browser"
)

// CodeSource supplies the current code buffers
type CodeSource interface {
	Code() codeblock.Code
}

// Server serves the preview on loopback. Code is read from the source on
// every request, so the page always reflects the latest reply.
type Server struct {
	source   CodeSource
	sanitize bool
	router   *mux.Router
}

// NewServer creates a preview server over source
func NewServer(source CodeSource, sanitize bool) *Server {
	s := &Server{source: source, sanitize: sanitize}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleFrame).Methods("GET")
	r.HandleFunc("/full", s.handleFull).Methods("GET")
	r.HandleFunc("/files/{name}", s.handleFile).Methods("GET")
	r.Use(noCacheMiddleware)
	return r
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	doc := Render(s.source.Code(), Options{Sanitize: s.sanitize})
	page, err := Frame(doc)
	if err != nil {
		internal.LogError("Preview frame failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleFull(w http.ResponseWriter, r *http.Request) {
	doc := Render(s.source.Code(), Options{Title: FullWindowTitle, Sanitize: s.sanitize})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

var fileContentTypes = map[codeblock.Language]string{
	codeblock.HTML:       "text/html; charset=utf-8",
	codeblock.CSS:        "text/css; charset=utf-8",
	codeblock.JavaScript: "text/javascript; charset=utf-8",
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	lang, ok := codeblock.LanguageForFile(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	content := s.source.Code().Get(lang)
	if content == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", fileContentTypes[lang])
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write([]byte(content))
}

func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// Listen binds addr and returns the listener, so callers learn the actual
// port when addr uses port 0.
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Open shows url in the user's default browser
func Open(url string) error {
	return browser.OpenURL(url)
}
