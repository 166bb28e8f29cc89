package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/go-sayo/sayohid/connmgr"
)

// buildDebugMux assembles the debug HTTP surface: a list of attached
// devices and a screen-buffer dump per device, in the same
// chi.NewRouter/middleware.Logger shape as multiserver.BuildMux.
func buildDebugMux(mgr *connmgr.Manager) chi.Router {
	root := chi.NewRouter()
	root.Use(middleware.Logger)

	root.Get("/devices", devicesHandler(mgr))
	root.Get("/devices/{id}/screen", screenHandler(mgr))
	return root
}

type deviceSummary struct {
	ID        string `json:"id"`
	ReportID  byte   `json:"reportId"`
	Supports21 bool  `json:"supports21"`
	Supports22 bool  `json:"supports22"`
}

func devicesHandler(mgr *connmgr.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := mgr.IDs()
		out := make([]deviceSummary, 0, len(ids))
		for _, id := range ids {
			d, ok := mgr.Get(id)
			if !ok {
				continue
			}
			out = append(out, deviceSummary{
				ID:         d.ID,
				ReportID:   d.ReportID(),
				Supports21: d.Supports21(),
				Supports22: d.Supports22(),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func screenHandler(mgr *connmgr.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		d, ok := mgr.Get(id)
		if !ok {
			http.Error(w, "unknown device", http.StatusNotFound)
			return
		}
		addr := uint64(0)
		if q := r.URL.Query().Get("addr"); q != "" {
			var err error
			addr, err = strconv.ParseUint(q, 10, 32)
			if err != nil {
				http.Error(w, "bad addr", http.StatusBadRequest)
				return
			}
		}
		buf := d.Decoder.Screen(uint32(addr))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(buf)
	}
}
