// Package router maps backend runtime events onto application life
// statuses. It holds no mutable state: both entry points are pure
// functions over the policy tables below, so the caller (the lifecycle
// manager) decides when and how to apply the result.
package router

// RuntimeStatus is the execution phase reported by a runtime backend.
type RuntimeStatus int

const (
	RuntimeStatusStopped RuntimeStatus = iota
	RuntimeStatusStarting
	RuntimeStatusRunning
	RuntimeStatusRegistered
	RuntimeStatusClosing
)

// String returns the lowercase wire form of the runtime status.
func (s RuntimeStatus) String() string {
	switch s {
	case RuntimeStatusStopped:
		return "stopped"
	case RuntimeStatusStarting:
		return "starting"
	case RuntimeStatusRunning:
		return "running"
	case RuntimeStatusRegistered:
		return "registered"
	case RuntimeStatusClosing:
		return "closing"
	}
	return "unknown"
}

// LifeStatus is the user-visible lifecycle phase of an application.
type LifeStatus int

const (
	LifeStatusStop LifeStatus = iota
	LifeStatusPreloading
	LifeStatusLaunching
	LifeStatusRelaunching
	LifeStatusForeground
	LifeStatusBackground
	LifeStatusPausing
	LifeStatusPaused
	LifeStatusClosing
)

// String returns the lowercase wire form published on subscriptions.
func (s LifeStatus) String() string {
	switch s {
	case LifeStatusStop:
		return "stop"
	case LifeStatusPreloading:
		return "preloading"
	case LifeStatusLaunching:
		return "launching"
	case LifeStatusRelaunching:
		return "relaunching"
	case LifeStatusForeground:
		return "foreground"
	case LifeStatusBackground:
		return "background"
	case LifeStatusPausing:
		return "pausing"
	case LifeStatusPaused:
		return "paused"
	case LifeStatusClosing:
		return "closing"
	}
	return "unknown"
}

// ParseLifeStatus converts the wire form back to a LifeStatus.
// Round-trips with String for every defined value.
func ParseLifeStatus(s string) (LifeStatus, bool) {
	for status := LifeStatusStop; status <= LifeStatusClosing; status++ {
		if status.String() == s {
			return status, true
		}
	}
	return LifeStatusStop, false
}

// LifeEvent is the event kind emitted on the lifecycle event stream.
type LifeEvent int

const (
	LifeEventSplash LifeEvent = iota
	LifeEventPreload
	LifeEventLaunch
	LifeEventForeground
	LifeEventBackground
	LifeEventPause
	LifeEventClose
	LifeEventStop
)

// String returns the wire form of the lifecycle event kind.
func (e LifeEvent) String() string {
	switch e {
	case LifeEventSplash:
		return "splash"
	case LifeEventPreload:
		return "preload"
	case LifeEventLaunch:
		return "launch"
	case LifeEventForeground:
		return "foreground"
	case LifeEventBackground:
		return "background"
	case LifeEventPause:
		return "pause"
	case LifeEventClose:
		return "close"
	case LifeEventStop:
		return "stop"
	}
	return "unknown"
}

// Action is the router's verdict on a candidate transition.
type Action int

const (
	// ActionSet applies the transition.
	ActionSet Action = iota
	// ActionIgnore drops the candidate without touching state.
	ActionIgnore
)

// Log is the severity the caller should log the transition at.
type Log int

const (
	LogNone Log = iota
	LogCheck
	LogWarn
	LogError
)

// Policy is the outcome of routing one candidate transition.
type Policy struct {
	Next   LifeStatus
	Action Action
	Log    Log
}

// LifeStatusFromRuntimeStatus maps a backend runtime status to a
// candidate life status. Running and Registered resolve to Foreground
// or Background depending on whether the app currently owns the screen.
func LifeStatusFromRuntimeStatus(rt RuntimeStatus, onForeground bool) LifeStatus {
	switch rt {
	case RuntimeStatusStopped:
		return LifeStatusStop
	case RuntimeStatusStarting:
		return LifeStatusLaunching
	case RuntimeStatusRunning, RuntimeStatusRegistered:
		if onForeground {
			return LifeStatusForeground
		}
		return LifeStatusBackground
	case RuntimeStatusClosing:
		return LifeStatusClosing
	}
	return LifeStatusStop
}

// LifeEventFromLifeStatus maps a life status to the event published on
// the lifecycle event stream. Splash is never produced here; it is
// generated separately when the launch pipeline reaches the memory
// check stage.
func LifeEventFromLifeStatus(s LifeStatus) LifeEvent {
	switch s {
	case LifeStatusPreloading:
		return LifeEventPreload
	case LifeStatusLaunching, LifeStatusRelaunching:
		return LifeEventLaunch
	case LifeStatusForeground:
		return LifeEventForeground
	case LifeStatusBackground:
		return LifeEventBackground
	case LifeStatusPausing, LifeStatusPaused:
		return LifeEventPause
	case LifeStatusClosing:
		return LifeEventClose
	}
	return LifeEventStop
}

// cell is one entry of the policy table.
type cell struct {
	next   LifeStatus
	action Action
	log    Log
}

// set/ignore build table cells; setAs rewrites the candidate.
func set(log Log) cell    { return cell{next: -1, action: ActionSet, log: log} }
func ignore(log Log) cell { return cell{next: -1, action: ActionIgnore, log: log} }

func setAs(next LifeStatus, log Log) cell {
	return cell{next: next, action: ActionSet, log: log}
}

// policyTable maps prev -> candidate -> cell. Missing cells default to
// a silent ActionSet of the candidate itself.
var policyTable = map[LifeStatus]map[LifeStatus]cell{
	LifeStatusStop: {
		LifeStatusStop:       ignore(LogNone),
		LifeStatusPreloading: set(LogCheck),
		LifeStatusLaunching:  set(LogCheck),
		LifeStatusForeground: set(LogWarn),
		LifeStatusBackground: set(LogWarn),
		LifeStatusPausing:    ignore(LogWarn),
		LifeStatusClosing:    ignore(LogNone),
	},
	LifeStatusPreloading: {
		LifeStatusStop:       set(LogCheck),
		LifeStatusPreloading: ignore(LogNone),
		LifeStatusLaunching:  setAs(LifeStatusRelaunching, LogCheck),
		LifeStatusForeground: set(LogWarn),
		LifeStatusBackground: set(LogCheck),
		LifeStatusPausing:    ignore(LogWarn),
		LifeStatusClosing:    set(LogCheck),
	},
	LifeStatusLaunching: {
		LifeStatusStop:       set(LogCheck),
		LifeStatusPreloading: ignore(LogWarn),
		LifeStatusLaunching:  ignore(LogNone),
		LifeStatusForeground: set(LogCheck),
		LifeStatusBackground: set(LogCheck),
		LifeStatusPausing:    set(LogCheck),
		LifeStatusClosing:    set(LogCheck),
	},
	LifeStatusRelaunching: {
		LifeStatusStop:        set(LogCheck),
		LifeStatusPreloading:  ignore(LogWarn),
		LifeStatusLaunching:   ignore(LogNone),
		LifeStatusRelaunching: ignore(LogNone),
		LifeStatusForeground:  set(LogCheck),
		LifeStatusBackground:  set(LogCheck),
		LifeStatusPausing:     set(LogCheck),
		LifeStatusClosing:     set(LogCheck),
	},
	LifeStatusForeground: {
		LifeStatusStop:       set(LogCheck),
		LifeStatusPreloading: ignore(LogWarn),
		LifeStatusLaunching:  setAs(LifeStatusRelaunching, LogCheck),
		LifeStatusForeground: ignore(LogNone),
		LifeStatusBackground: set(LogCheck),
		LifeStatusPausing:    set(LogCheck),
		LifeStatusClosing:    set(LogCheck),
	},
	LifeStatusBackground: {
		LifeStatusStop:       set(LogCheck),
		LifeStatusPreloading: set(LogCheck),
		LifeStatusLaunching:  setAs(LifeStatusRelaunching, LogCheck),
		LifeStatusForeground: set(LogCheck),
		LifeStatusBackground: ignore(LogNone),
		LifeStatusPausing:    set(LogCheck),
		LifeStatusClosing:    set(LogCheck),
	},
	LifeStatusPausing: {
		LifeStatusStop:       set(LogCheck),
		LifeStatusPreloading: ignore(LogWarn),
		LifeStatusLaunching:  setAs(LifeStatusRelaunching, LogCheck),
		LifeStatusForeground: set(LogWarn),
		LifeStatusBackground: set(LogCheck),
		LifeStatusPausing:    ignore(LogNone),
		LifeStatusClosing:    set(LogCheck),
	},
	LifeStatusPaused: {
		LifeStatusStop:       set(LogCheck),
		LifeStatusPreloading: set(LogCheck),
		LifeStatusLaunching:  setAs(LifeStatusRelaunching, LogCheck),
		LifeStatusForeground: set(LogCheck),
		LifeStatusBackground: set(LogCheck),
		LifeStatusPaused:     ignore(LogNone),
		LifeStatusClosing:    set(LogCheck),
	},
	LifeStatusClosing: {
		LifeStatusStop:        set(LogCheck),
		LifeStatusPreloading:  ignore(LogError),
		LifeStatusLaunching:   ignore(LogError),
		LifeStatusRelaunching: ignore(LogError),
		LifeStatusForeground:  ignore(LogError),
		LifeStatusBackground:  ignore(LogError),
		LifeStatusPausing:     ignore(LogError),
		LifeStatusPaused:      ignore(LogError),
		LifeStatusClosing:     ignore(LogNone),
	},
}

// RoutePolicy computes the outcome of a candidate transition.
// Identity candidates are always ignored; everything else follows the
// policy table, defaulting to a silent set.
func RoutePolicy(prev, candidate LifeStatus) Policy {
	if prev == candidate {
		return Policy{Next: prev, Action: ActionIgnore, Log: LogNone}
	}

	row, ok := policyTable[prev]
	if !ok {
		return Policy{Next: candidate, Action: ActionSet, Log: LogNone}
	}
	c, ok := row[candidate]
	if !ok {
		return Policy{Next: candidate, Action: ActionSet, Log: LogNone}
	}

	next := c.next
	if next == -1 {
		if c.action == ActionIgnore {
			next = prev
		} else {
			next = candidate
		}
	}
	return Policy{Next: next, Action: c.action, Log: c.log}
}
