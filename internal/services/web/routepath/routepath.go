// Package routepath names every browser route of the web service.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root   = "/"
	Login  = "/login"
	Signup = "/signup"
	Logout = "/logout"
	Health = "/up"

	AppPrefix = "/app/"

	AppDashboard        = "/app/dashboard"
	DashboardPrefix     = "/app/dashboard/"
	AppSubscriptions    = "/app/subscriptions"
	SubscriptionsPrefix = "/app/subscriptions/"
	AppProfile          = "/app/profile"
	ProfilePrefix       = "/app/profile/"
	AppEvents           = "/app/events"
	EventsPrefix        = "/app/events/"
	AppEventsWS         = "/app/events/ws"

	// Pattern segments for the subscription routes.
	SubscriptionPattern       = SubscriptionsPrefix + "{id}"
	SubscriptionEditPattern   = SubscriptionsPrefix + "{id}/edit"
	SubscriptionDeletePattern = SubscriptionsPrefix + "{id}/delete"
	SubscriptionNewPattern    = SubscriptionsPrefix + "new"
)

// Subscription returns the update target of one subscription.
func Subscription(id string) string {
	return SubscriptionsPrefix + escape(id)
}

// SubscriptionEdit returns the edit form route of one subscription.
func SubscriptionEdit(id string) string {
	return Subscription(id) + "/edit"
}

// SubscriptionDelete returns the delete confirmation route of one subscription.
func SubscriptionDelete(id string) string {
	return Subscription(id) + "/delete"
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
