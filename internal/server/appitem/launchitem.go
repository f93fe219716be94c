// Package appitem holds the in-flight request values that travel the
// launch and close paths. Each item carries a freshly generated uid
// used to correlate the asynchronous stage callbacks, and owns the
// originating request's reply so that exactly one reply is posted no
// matter which stage finishes the item.
package appitem

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/appmand/internal/server/appitem/finitestate"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
)

// ReplyFunc posts the final payload back to the originating request.
type ReplyFunc func(payload map[string]any)

// LaunchItem is one launch request moving through the pipeline.
type LaunchItem struct {
	uid      uuid.UUID
	appID    string
	callerID string
	reason   string
	preload  string

	showSplash  bool
	showSpinner bool
	automatic   bool
	bridged     bool

	params map[string]any

	stage           finitestate.Machine
	launchStartTime time.Time

	errorCode int
	errorText string
	pid       string

	reply   ReplyFunc
	replied bool

	logger       *slog.Logger
	logCollector *loglater.LogCollector
}

// NewLaunchItem builds a launch item from a request payload. The
// payload's "id" field is required; "reason", "preload", "noSplash",
// "spinner" and "automaticLaunch" are read from the top level of the
// payload into item fields. showSplash defaults to true and showSpinner
// to false when the request is silent.
func NewLaunchItem(
	payload map[string]any,
	callerID string,
	reply ReplyFunc,
	handler slog.Handler,
) (*LaunchItem, error) {
	appID, _ := payload["id"].(string)
	if appID == "" {
		return nil, ErrMissingAppID
	}

	uid := uuid.Must(uuid.NewV6())

	// Per-item log history so a finished launch can replay its trip.
	logCollector := loglater.NewLogCollector(handler)
	logger := slog.New(logCollector).With(
		"uid", uid,
		"appId", appID,
		"caller", callerID)

	stage, err := finitestate.New(handler)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage machine: %w", err)
	}

	item := &LaunchItem{
		uid:          uid,
		appID:        appID,
		callerID:     callerID,
		showSplash:   true,
		stage:        stage,
		reply:        reply,
		logger:       logger,
		logCollector: logCollector,
	}

	if v, ok := payload["reason"].(string); ok {
		item.reason = v
	}
	if v, ok := payload["preload"].(string); ok {
		item.preload = v
	}
	if v, ok := payload["noSplash"].(bool); ok {
		item.showSplash = !v
	}
	if v, ok := payload["spinner"].(bool); ok {
		item.showSpinner = v
	}
	if v, ok := payload["automaticLaunch"].(bool); ok {
		item.automatic = v
	}
	if v, ok := payload["params"].(map[string]any); ok {
		item.params = v
	} else {
		item.params = map[string]any{}
	}

	item.logger.Info("created launch item")
	return item, nil
}

// UID returns the item's correlation id in string form.
func (i *LaunchItem) UID() string { return i.uid.String() }

func (i *LaunchItem) AppID() string    { return i.appID }
func (i *LaunchItem) CallerID() string { return i.callerID }
func (i *LaunchItem) Reason() string   { return i.reason }

// Preload returns the preload kind string, empty for a normal launch.
func (i *LaunchItem) Preload() string { return i.preload }

func (i *LaunchItem) ShowSplash() bool  { return i.showSplash }
func (i *LaunchItem) ShowSpinner() bool { return i.showSpinner }

// SetShowSplash overrides the splash decision after package metadata
// has been consulted.
func (i *LaunchItem) SetShowSplash(v bool)  { i.showSplash = v }
func (i *LaunchItem) SetShowSpinner(v bool) { i.showSpinner = v }

// Params returns the opaque request parameters forwarded to the app.
func (i *LaunchItem) Params() map[string]any { return i.params }

// Automatic reports whether the item must wait for a bridged-launch
// decision from its parent before prelaunching completes.
func (i *LaunchItem) Automatic() bool { return i.automatic }

// BridgeResolved reports whether the parent decision has arrived.
func (i *LaunchItem) BridgeResolved() bool { return i.bridged }

// ResolveBridge merges the parent-supplied parameters and releases the
// item from the rendezvous.
func (i *LaunchItem) ResolveBridge(params map[string]any) {
	for k, v := range params {
		i.params[k] = v
	}
	i.bridged = true
	i.logger.Info("bridged launch resolved")
}

// Stage returns the current pipeline stage.
func (i *LaunchItem) Stage() string { return i.stage.GetState() }

// SetStage moves the pipeline forward. Backwards moves are rejected by
// the stage machine.
func (i *LaunchItem) SetStage(stage string) error {
	if err := i.stage.Transition(stage); err != nil {
		return fmt.Errorf("stage %s -> %s: %w", i.stage.GetState(), stage, err)
	}
	i.logger.Debug("stage changed", "stage", stage)
	return nil
}

// SetLaunchStartTime records when the pipeline accepted the request.
func (i *LaunchItem) SetLaunchStartTime(t time.Time) { i.launchStartTime = t }
func (i *LaunchItem) LaunchStartTime() time.Time     { return i.launchStartTime }

// SetError records a failure on the item. The pipeline finalizes the
// item normally; errors never propagate as panics or return values
// across stages.
func (i *LaunchItem) SetError(code int, text string) {
	i.errorCode = code
	i.errorText = text
	i.logger.Warn("launch error", "errorCode", code, "errorText", text)
}

func (i *LaunchItem) ErrorCode() int    { return i.errorCode }
func (i *LaunchItem) ErrorText() string { return i.errorText }
func (i *LaunchItem) HasError() bool    { return i.errorText != "" }

// SetPid records the process id reported by the backend after launch.
func (i *LaunchItem) SetPid(pid string) { i.pid = pid }
func (i *LaunchItem) Pid() string       { return i.pid }

// Logger returns the item-scoped logger backed by the log collector.
func (i *LaunchItem) Logger() *slog.Logger { return i.logger }

// PlayLogs replays the item's collected log history onto the given
// handler.
func (i *LaunchItem) PlayLogs(handler slog.Handler) error {
	return i.logCollector.PlayLogs(handler)
}

// Reply posts the final payload to the originating request. Only the
// first call wins; later calls return ErrAlreadyReplied.
func (i *LaunchItem) Reply(payload map[string]any) error {
	if i.replied {
		return ErrAlreadyReplied
	}
	i.replied = true
	if i.reply != nil {
		i.reply(payload)
	}
	return nil
}

// Replied reports whether the request has been answered.
func (i *LaunchItem) Replied() bool { return i.replied }
