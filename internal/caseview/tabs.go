package caseview

import (
	"errors"
	"fmt"
)

var ErrUnknownTab = errors.New("unknown tab")

type Tab string

const (
	TabSubject  Tab = "subject"
	TabClips    Tab = "clips"
	TabNotes    Tab = "notes"
	TabAnalysis Tab = "analysis"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabSubject, TabClips, TabNotes, TabAnalysis}

func (t Tab) Valid() bool {
	for _, v := range Tabs {
		if v == t {
			return true
		}
	}
	return false
}

func (t Tab) Title() string {
	switch t {
	case TabSubject:
		return "Subject"
	case TabClips:
		return "Clips"
	case TabNotes:
		return "Notes"
	case TabAnalysis:
		return "AI Analysis"
	}
	return string(t)
}

// SwitchTab makes name the visible tab. Switching to the active tab is a
// no-op; session state is never touched.
func (c *Controller) SwitchTab(name string) error {
	t := Tab(name)
	if !t.Valid() {
		return fmt.Errorf("switch to %q: %w", name, ErrUnknownTab)
	}
	c.tab = t
	return nil
}

func (c *Controller) ActiveTab() Tab {
	return c.tab
}

// CycleTab moves delta positions through Tabs, wrapping at both ends.
func (c *Controller) CycleTab(delta int) {
	idx := 0
	for i, t := range Tabs {
		if t == c.tab {
			idx = i
			break
		}
	}
	n := len(Tabs)
	c.tab = Tabs[((idx+delta)%n+n)%n]
}
