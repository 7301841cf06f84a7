package port

//go:generate mockgen -destination=mocks/mock_port.go -package=mocks github.com/bnema/artcache/internal/application/port AssetStore,Dispatcher

// Dispatcher marshals work onto the single presentation scheduling context
// (the UI thread). Post must not block and must run fn exactly once, in
// submission order relative to other Post calls.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

// Post implements Dispatcher.
func (f DispatcherFunc) Post(fn func()) {
	f(fn)
}
