package feature

import "collegeprep/store"

// UI preference keys, stable across reloads. These are viewer conveniences
// outside the generation pipeline.
const (
	themeKey   = "theme"
	sidebarKey = "sidebarExpanded"
)

// Prefs reads and writes viewer preferences.
type Prefs struct {
	store store.Store
}

func NewPrefs(s store.Store) *Prefs {
	return &Prefs{store: s}
}

// Theme returns "dark" or "light" (the default).
func (p *Prefs) Theme() string {
	return p.store.GetString(themeKey, "light")
}

func (p *Prefs) SetTheme(theme string) error {
	return p.store.SetString(themeKey, theme)
}

// SidebarExpanded defaults to true.
func (p *Prefs) SidebarExpanded() bool {
	return p.store.GetString(sidebarKey, "true") == "true"
}

func (p *Prefs) SetSidebarExpanded(expanded bool) error {
	if expanded {
		return p.store.SetString(sidebarKey, "true")
	}
	return p.store.SetString(sidebarKey, "false")
}
