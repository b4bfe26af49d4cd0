package events

import (
	"net/http"

	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppEvents, h.handleStream)
	mux.HandleFunc(http.MethodGet+" "+routepath.EventsPrefix+"{$}", h.handleStream)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppEventsWS, h.handleWebsocket)
}
