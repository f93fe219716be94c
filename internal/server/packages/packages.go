// Package packages exposes the read-only application package view the
// lifecycle core consumes. The full catalog loader lives behind the
// Lookup interface; this package only defines the record shape and a
// map-backed catalog used at boot and in tests.
package packages

import "fmt"

// AppType categorizes how an application is implemented.
type AppType string

const (
	AppTypeWeb    AppType = "web"
	AppTypeNative AppType = "native"
	AppTypeQml    AppType = "qml"
	AppTypeStub   AppType = "stub"
)

// HandlerType selects the runtime backend responsible for an app.
type HandlerType string

const (
	HandlerTypeWeb    HandlerType = "web"
	HandlerTypeNative HandlerType = "native"
	HandlerTypeQml    HandlerType = "qml"
)

// TypeByDir distinguishes where the package was installed from.
type TypeByDir string

const (
	TypeByDirSystem TypeByDir = "system"
	TypeByDirStore  TypeByDir = "store"
	TypeByDirDev    TypeByDir = "dev"
)

// AppPackage is the metadata record for one installable application.
type AppPackage struct {
	ID                     string      `toml:"id"`
	Type                   AppType     `toml:"type"`
	HandlerType            HandlerType `toml:"handler_type"`
	NativeInterfaceVersion int         `toml:"native_interface_version"`
	DefaultWindowType      string      `toml:"default_window_type"`
	ChildWindow            bool        `toml:"child_window"`
	Title                  string      `toml:"title"`
	SplashBackground       string      `toml:"splash_background"`
	TypeByDir              TypeByDir   `toml:"type_by_dir"`

	// Main is the entry point: an executable path for native apps, the
	// document or qml root otherwise.
	Main string `toml:"main"`
}

// IsDevApp reports whether the package was installed from the developer
// directory.
func (p *AppPackage) IsDevApp() bool {
	return p.TypeByDir == TypeByDirDev
}

// Lookup resolves app ids to package records. Implementations return
// nil for unknown ids.
type Lookup interface {
	GetAppByID(appID string) *AppPackage
}

// Catalog is a map-backed Lookup.
type Catalog struct {
	apps map[string]*AppPackage
}

// NewCatalog creates a catalog from the given packages.
func NewCatalog(apps ...*AppPackage) (*Catalog, error) {
	m := make(map[string]*AppPackage, len(apps))
	for _, app := range apps {
		if app.ID == "" {
			return nil, fmt.Errorf("package without id")
		}
		if _, exists := m[app.ID]; exists {
			return nil, fmt.Errorf("duplicate package id: %s", app.ID)
		}
		m[app.ID] = app
	}
	return &Catalog{apps: m}, nil
}

// GetAppByID implements Lookup.
func (c *Catalog) GetAppByID(appID string) *AppPackage {
	if c == nil {
		return nil
	}
	return c.apps[appID]
}

// Register adds or replaces a package in the catalog.
func (c *Catalog) Register(app *AppPackage) {
	c.apps[app.ID] = app
}

// Remove deletes a package from the catalog.
func (c *Catalog) Remove(appID string) {
	delete(c.apps, appID)
}

// Len returns the number of packages in the catalog.
func (c *Catalog) Len() int {
	return len(c.apps)
}
