package redirect

import (
	"context"
	"io"

	"github.com/pkg/browser"
)

// Notifier delivers the "redirecting to the signing service" notice.
type Notifier interface {
	Notify(ctx context.Context, url string)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, url string)

// Notify calls fn.
func (fn NotifierFunc) Notify(ctx context.Context, url string) {
	fn(ctx, url)
}

// Opener opens the signing URL in a new browsing context.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function into an Opener.
type OpenerFunc func(ctx context.Context, url string) error

// Open calls fn.
func (fn OpenerFunc) Open(ctx context.Context, url string) error {
	return fn(ctx, url)
}

// BrowserOpener opens URLs with the platform browser. Output of the helper
// process is discarded.
func BrowserOpener() Opener {
	return OpenerFunc(func(_ context.Context, url string) error {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
		return browser.OpenURL(url)
	})
}
