package subscriptions

import (
	"net/http"

	"github.com/louisbranch/subtrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSubscriptions, h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.SubscriptionsPrefix+"{$}", h.handleList)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppSubscriptions, h.handleCreate)
	mux.HandleFunc(http.MethodPost+" "+routepath.SubscriptionsPrefix+"{$}", h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.SubscriptionNewPattern, h.handleNew)

	mux.HandleFunc(http.MethodPost+" "+routepath.SubscriptionPattern, h.handleUpdate)
	mux.HandleFunc(http.MethodGet+" "+routepath.SubscriptionPattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodGet+" "+routepath.SubscriptionEditPattern, h.handleEdit)
	mux.HandleFunc(http.MethodGet+" "+routepath.SubscriptionDeletePattern, h.handleDeleteConfirm)
	mux.HandleFunc(http.MethodPost+" "+routepath.SubscriptionDeletePattern, h.handleDelete)
	mux.HandleFunc(http.MethodGet+" "+routepath.SubscriptionPattern+"/{rest...}", h.handleNotFound)
}
