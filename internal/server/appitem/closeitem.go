package appitem

import (
	"log/slog"

	"github.com/gofrs/uuid/v5"
)

// CloseItem is one close request handed to a runtime backend. It is
// created per request and discarded when the backend reports the
// terminal state.
type CloseItem struct {
	uid      uuid.UUID
	appID    string
	pid      string
	callerID string
	reason   string
}

// NewCloseItem builds a close item for the given app.
func NewCloseItem(appID, pid, callerID, reason string) *CloseItem {
	item := &CloseItem{
		uid:      uuid.Must(uuid.NewV6()),
		appID:    appID,
		pid:      pid,
		callerID: callerID,
		reason:   reason,
	}
	slog.Default().Info("created close item", "uid", item.uid, "appId", appID)
	return item
}

func (i *CloseItem) UID() string      { return i.uid.String() }
func (i *CloseItem) AppID() string    { return i.appID }
func (i *CloseItem) Pid() string      { return i.pid }
func (i *CloseItem) CallerID() string { return i.callerID }
func (i *CloseItem) Reason() string   { return i.reason }
