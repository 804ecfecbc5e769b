package caseview

import "time"

// Scheduler runs functions on the controller's event loop. Every method is
// safe to call from any goroutine; fn itself always runs on the loop.
type Scheduler interface {
	// Post queues fn to run on the loop.
	Post(fn func())
	// After runs fn once after d. The returned func cancels it.
	After(d time.Duration, fn func()) (cancel func())
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) (cancel func())
}
