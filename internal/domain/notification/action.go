// internal/domain/notification/action.go
package notification

// Action is the UI affordance derived from an event type: the label on the
// deep link and the dashboard path it points at. EntityURL, when present,
// overrides the path.
type Action struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var actionsByEvent = map[EventType]Action{
	EventGroup:        {Label: "View Group", Path: "/dashboard/groups"},
	EventTransaction:  {Label: "View Transaction", Path: "/dashboard/transactions"},
	EventMembership:   {Label: "View Invitation", Path: "/dashboard/groups"},
	EventContribution: {Label: "View Contribution", Path: "/dashboard/contributions"},
	EventPayout:       {Label: "View Payout", Path: "/dashboard/payouts"},
	EventGeneralAlert: {Label: "View Details", Path: "/dashboard"},
	EventSystem:       {Label: "View Details", Path: "/dashboard"},
	EventAIInsight:    {Label: "View Insight", Path: "/dashboard/ai-insights"},
}

var defaultAction = Action{Label: "View", Path: "/dashboard/notifications"}

// ActionFor returns the UI action for an event type. Unknown event types
// (including EventOther) fall back to the notifications page.
func ActionFor(et EventType) Action {
	if a, ok := actionsByEvent[et]; ok {
		return a
	}
	return defaultAction
}

// Link resolves the deep link for a notification, preferring the backend
// supplied entity URL. The URL is opaque to this client.
func (n *Notification) Link() Action {
	a := ActionFor(n.EventType)
	if n.EntityURL != "" {
		a.Path = n.EntityURL
	}
	return a
}
