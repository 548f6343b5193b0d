//go:build !wasm

package main

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tinywasm/tfpdf"
	"github.com/tinywasm/tfpdf/config"
	"github.com/tinywasm/tfpdf/errs"
	"github.com/tinywasm/tfpdf/fontManager"
	"github.com/tinywasm/tfpdf/fpdf"
)

// maxDefinitionSize bounds the YAML accepted by /render.
const maxDefinitionSize = 1 << 20

func main() {
	// Define flags
	publicDir := flag.String("public-dir", "", "Directory containing static files")
	port := flag.String("port", "", "Port to listen on")
	fontDir := flag.String("font-dir", "", "Directory font paths of /render definitions are relative to")
	flag.Parse()

	// Priority: flag > env var > default
	if *port == "" {
		*port = os.Getenv("PORT")
		if *port == "" {
			*port = "4430"
		}
	}

	if *publicDir == "" {
		*publicDir = os.Getenv("PUBLIC_DIR")
		if *publicDir == "" {
			*publicDir = "public"
		}
	}
	if *fontDir == "" {
		*fontDir = *publicDir
	}

	absPublicDir, err := filepath.Abs(*publicDir)
	if err != nil {
		log.Fatalf("Error resolving public directory path: %v", err)
	}
	if _, err := os.Stat(absPublicDir); os.IsNotExist(err) {
		log.Fatalf("Static files directory does not exist: %s", absPublicDir)
	}

	log.Printf("Serving static files from: %s", absPublicDir)
	fs := http.FileServer(http.Dir(absPublicDir))

	// Middleware to disable caching for static files (useful in dev/test)
	noCache := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
			h.ServeHTTP(w, r)
		})
	}

	mux := http.NewServeMux()
	mux.Handle("/", noCache(fs))
	mux.Handle("/render", newRenderHandler(*fontDir))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is running"))
	})

	server := &http.Server{
		Addr:    ":" + *port,
		Handler: mux,
	}

	log.Printf("Starting server on port %s", *port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

// renderHandler turns a POSTed YAML definition into a PDF. Font and image
// paths are resolved inside root and font metrics are cached across
// requests.
type renderHandler struct {
	root  string
	cache *fontManager.MetricsCache
}

func newRenderHandler(root string) *renderHandler {
	return &renderHandler{
		root:  root,
		cache: fontManager.NewMetricsCache("", nil, nil),
	}
}

func (h *renderHandler) readFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(h.root, filepath.FromSlash(filepath.Clean("/"+name))))
}

func (h *renderHandler) stat(name string) (int64, time.Time, error) {
	info, err := os.Stat(filepath.Join(h.root, filepath.FromSlash(filepath.Clean("/"+name))))
	if err != nil {
		return 0, time.Time{}, err
	}
	return info.Size(), info.ModTime(), nil
}

func (h *renderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDefinitionSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	def, err := config.ParseConfig(data)
	if err == nil {
		def.SetDefaults()
		def.CacheDir = ""
		err = def.Validate()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := tfpdf.Render(def,
		fpdf.ReadFileFunc(h.readFile),
		fpdf.FileStatFunc(h.stat),
		h.cache,
	)
	var buf bytes.Buffer
	if err == nil {
		err = doc.Fpdf.Output(&buf)
	}
	if err != nil {
		log.Printf("render: %v", err)
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(buf.Bytes())
}

// statusOf separates bad input files from library failures.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrFileFormat), errors.Is(err, errs.ErrPolicyViolation),
		errors.Is(err, errs.ErrStreamIO), errors.Is(err, errs.ErrNoPage):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
