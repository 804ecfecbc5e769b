package ui

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
)

//go:embed icon.png
var iconBytes []byte

type Tray struct {
	url    string
	logger *slog.Logger

	casesItem *systray.MenuItem

	mu sync.Mutex

	open       func(url string) error
	countCases func() (int, error)
	onQuit     func()
}

type TrayConfig struct {
	// URL is the reviewer page opened in the browser.
	URL    string
	Logger *slog.Logger
	// Open overrides how the URL is opened. Defaults to OpenBrowser.
	Open func(url string) error
	// CountCases, when set, fills the case count once the menu is built.
	CountCases func() (int, error)
	OnQuit     func()
}

func NewTray(cfg TrayConfig) *Tray {
	open := cfg.Open
	if open == nil {
		open = OpenBrowser
	}
	return &Tray{
		url:        cfg.URL,
		logger:     cfg.Logger,
		open:       open,
		countCases: cfg.CountCases,
		onQuit:     cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("ARIA")
	systray.SetTooltip("ARIA Video Analyzer")

	addrItem := systray.AddMenuItem(t.url, "Reviewer address")
	addrItem.Disable()

	t.mu.Lock()
	t.casesItem = systray.AddMenuItem("Cases: -", "Stored case records")
	t.casesItem.Disable()
	t.mu.Unlock()
	t.refreshCasesCount()

	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open Reviewer", "Open the reviewer in a browser")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit ARIA Video Analyzer")

	go func() {
		for {
			select {
			case <-openItem.ClickedCh:
				t.OpenReviewer()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

// OpenReviewer opens the reviewer page, logging failures.
func (t *Tray) OpenReviewer() {
	if err := t.open(t.url); err != nil {
		t.logger.Error("failed to open browser", "url", t.url, "error", err)
	}
}

func (t *Tray) refreshCasesCount() {
	if t.countCases == nil {
		return
	}
	n, err := t.countCases()
	if err != nil {
		t.logger.Warn("failed to count cases", "error", err)
		return
	}
	t.UpdateCasesCount(n)
}

// UpdateCasesCount is safe to call before the tray is ready.
func (t *Tray) UpdateCasesCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.casesItem == nil {
		return
	}
	t.casesItem.SetTitle(fmt.Sprintf("Cases: %d", count))
}

func (t *Tray) Quit() {
	systray.Quit()
}

// OpenBrowser opens url with the platform's default handler.
func OpenBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
