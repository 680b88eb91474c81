// Package httphandler serves the operator trigger for migration runs.
package httphandler

import (
	"StoreImport/internal/migrate"
	"StoreImport/internal/source"
	"StoreImport/internal/version"
	"StoreImport/pkg/logging"
	"fmt"
	"net/http"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RunFunc performs one synchronous migration run.
type RunFunc func(kind source.Kind) *migrate.Result

type Handler struct {
	run RunFunc
	mu  sync.Mutex
}

func New(run RunFunc) *Handler {
	return &Handler{run: run}
}

func (h *Handler) Router() *httprouter.Router {
	router := httprouter.New()
	router.GET("/", h.HandlerOtherAll)
	router.POST("/migrate/:source", h.HandlerMigrate)
	return router
}

func (h *Handler) HandlerOtherAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := logging.GetLogger()
	logger.Debug("Start HandlerOtherAll")
	defer logger.Debug("End HandlerOtherAll")

	v := version.GetVersion()
	if _, err := fmt.Fprintf(w, "Version %s", v.String()); err != nil {
		logger.Errorf("failed to send response, error: %v", err)
	}
}

// HandlerMigrate runs a migration for the :source parameter. Only one run is
// served at a time, a concurrent request gets 409.
func (h *Handler) HandlerMigrate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := logging.GetLogger()
	logger.Info("Start HandlerMigrate")
	defer logger.Info("End HandlerMigrate")

	name := strings.ToLower(ps.ByName("source"))
	if name != source.Velocity.String() && name != source.WooCommerce.String() {
		http.Error(w, fmt.Sprintf("unknown source %q", name), http.StatusBadRequest)
		return
	}

	if !h.mu.TryLock() {
		logger.Warn("Migration already running")
		http.Error(w, "migration already running", http.StatusConflict)
		return
	}
	defer h.mu.Unlock()

	res := h.run(source.ParseKind(name))

	body, err := json.Marshal(res)
	if err != nil {
		logger.Errorf("failed json.Marshal result, error: %v", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		logger.Errorf("failed to send response, error: %v", err)
	}
}
