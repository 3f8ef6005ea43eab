// Define the navigation capability the pagination controller needs
// Keeps playwright out of the core so the controller is testable with a fake

package driver

import (
	"context"
	"time"
)

// Card is one listing item on the current results page.
type Card interface {
	// ScrollIntoView brings the card into the viewport. Best effort.
	ScrollIntoView() error

	// Text returns the card's visible text.
	Text() (string, error)

	// Open clicks the card so the detail panel loads.
	Open() error
}

// Driver is a single stateful browsing session. It is not safe for
// concurrent use; the pipeline drives it strictly one call at a time.
type Driver interface {
	// WaitForResults blocks until the results container is present or the
	// timeout elapses.
	WaitForResults(ctx context.Context, timeout time.Duration) error

	// Cards enumerates the listing items on the current page.
	Cards() ([]Card, error)

	// DetailText returns the visible text of the currently opened detail
	// panel.
	DetailText() (string, error)

	// DetailReposted reports whether the opened detail view carries a
	// "Reposted" marker.
	DetailReposted() bool

	// JobURL returns the external URL of the currently opened job, or ""
	// when none could be read.
	JobURL() string

	// HasNextPage reports whether an enabled next-page control exists.
	HasNextPage() (bool, error)

	// NextPage clicks the next-page control.
	NextPage() error
}
