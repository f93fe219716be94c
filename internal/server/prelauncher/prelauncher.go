// Package prelauncher implements the first launch pipeline stage:
// package resolution, splash and spinner decisions, and the
// bridged-launch rendezvous for automatic apps that must wait for a
// parent decision before proceeding.
package prelauncher

import (
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/appitem"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
)

// Prelauncher processes launch items one at a time; every item added
// produces exactly one Done callback.
type Prelauncher struct {
	lookup packages.Lookup
	logger *slog.Logger

	// Done fires when an item finishes this stage, error or not.
	Done func(uid string)

	// Parked fires when an automatic item enters the bridged-launch
	// rendezvous and will not finish until InputBridgedReturn.
	Parked func(item *appitem.LaunchItem)

	inflight map[string]*appitem.LaunchItem
	pending  map[string]*appitem.LaunchItem
}

// New creates a prelauncher resolving packages through the lookup.
func New(lookup packages.Lookup, handler slog.Handler) *Prelauncher {
	return &Prelauncher{
		lookup:   lookup,
		logger:   slog.New(handler).WithGroup("prelauncher"),
		inflight: make(map[string]*appitem.LaunchItem),
		pending:  make(map[string]*appitem.LaunchItem),
	}
}

// Add runs the stage for one item.
func (p *Prelauncher) Add(item *appitem.LaunchItem) {
	uid := item.UID()
	p.inflight[uid] = item

	pkg := p.lookup.GetAppByID(item.AppID())
	if pkg == nil {
		item.SetError(appitem.ErrCodeNotExist, "not exist")
		p.finish(item)
		return
	}

	// Splash only renders when the package ships a background asset;
	// preloads never show launch feedback.
	if item.ShowSplash() && pkg.SplashBackground == "" {
		item.SetShowSplash(false)
	}
	if item.Preload() != "" {
		item.SetShowSplash(false)
		item.SetShowSpinner(false)
	}

	if item.Automatic() && !item.BridgeResolved() {
		p.pending[uid] = item
		item.Logger().Info("waiting for bridged launch decision")
		if p.Parked != nil {
			p.Parked(item)
		}
		return
	}

	p.finish(item)
}

// InputBridgedReturn resumes a parked item with the parent-supplied
// parameters. Unknown items are ignored.
func (p *Prelauncher) InputBridgedReturn(item *appitem.LaunchItem, params map[string]any) {
	uid := item.UID()
	if _, ok := p.pending[uid]; !ok {
		p.logger.Warn("bridged return for unknown item", "uid", uid)
		return
	}
	delete(p.pending, uid)
	item.ResolveBridge(params)
	p.finish(item)
}

// CancelAll short-circuits every in-flight item with an error.
func (p *Prelauncher) CancelAll() {
	items := make([]*appitem.LaunchItem, 0, len(p.inflight))
	for _, item := range p.inflight {
		items = append(items, item)
	}
	for _, item := range items {
		item.SetError(appitem.ErrCodeLaunchGeneral, "stopped launching")
		p.finish(item)
	}
}

// Remove forgets an item without emitting Done. Used when the manager
// finalizes the item directly.
func (p *Prelauncher) Remove(uid string) {
	delete(p.inflight, uid)
	delete(p.pending, uid)
}

// IsPending reports whether the item sits in the bridged rendezvous.
func (p *Prelauncher) IsPending(uid string) bool {
	_, ok := p.pending[uid]
	return ok
}

func (p *Prelauncher) finish(item *appitem.LaunchItem) {
	uid := item.UID()
	if _, ok := p.inflight[uid]; !ok {
		return
	}
	delete(p.inflight, uid)
	delete(p.pending, uid)
	if p.Done != nil {
		p.Done(uid)
	}
}
