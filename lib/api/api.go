// @title			helloquad API
// @version		1.0
// @description	Status and control of a running helloquad window
// @BasePath		/
package api

//go:generate go tool swag init --generalInfo api.go --output docs --outputTypes go

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/nemo/helloquad/lib/api/docs"
	"github.com/nemo/helloquad/lib/config"
	"github.com/nemo/helloquad/lib/metrics"
	"github.com/nemo/helloquad/lib/stats"
)

type Api struct {
	srv      http.Server
	mux      *http.ServeMux
	cfg      *config.ApiCfg
	shutdown func()
	log      *slog.Logger

	Stats *stats.Stats

	wsClients map[*websocket.Conn]bool
	wsMutex   sync.Mutex
}

// New builds the api. shutdown is called when a client asks the program to
// quit; it must be safe to call from any goroutine.
func New(cfg *config.ApiCfg, s *stats.Stats, shutdown func()) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.shutdown = shutdown
	a.log = slog.With("module", "api")
	a.Stats = s
	a.wsClients = make(map[*websocket.Conn]bool)

	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("/api/kill", a.suicide)
	a.mux.HandleFunc("/api/stats", a.getStats)
	a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	a.mux.Handle("/metrics", metrics.Handler())
	a.mux.Handle("/swagger/", httpSwagger.WrapHandler)
	return a
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	return a.srv.ListenAndServe()
}

func ServeInBackground(cfg *config.ApiCfg, s *stats.Stats, shutdown func()) *Api {
	a := New(cfg, s, shutdown)
	go func() {
		a.log.Info(fmt.Sprintf("listening on %s", cfg.Bind))
		err := a.Serve()
		if err != nil && err != http.ErrServerClosed {
			a.log.Error("api server stopped", "error", err)
		}
	}()
	return a
}

func (a *Api) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// @Summary	Close the window and exit
// @Router		/api/kill [post]
// @Tags		base
// @Success	200	{string}	string	"ok"
func (a *Api) suicide(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "Invalid method, only POST supported", http.StatusMethodNotAllowed)
		return
	}
	a.log.Info("shutting down as per api request")
	a.shutdown()
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.log.Warn("could not write response", "error", err)
		return
	}
}

// @Summary	Frame and viewport statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Report
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could not encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}
