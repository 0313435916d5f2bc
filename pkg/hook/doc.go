// Package hook provides named, ordered, synchronous extension points.
//
// A [Bus] keeps an ordered subscriber list per hook name. Subscribers are
// registered at startup with [Bus.Listen] or in bulk with [Bus.Import], and
// invoked in registration order by [Bus.Notify]:
//
//	bus := hook.New()
//	bus.Listen(hook.AppBegin, func(ctx context.Context, payload any) (any, error) {
//	    log.Info("dispatch", "descriptor", payload)
//	    return nil, nil
//	})
//
//	decision, err := bus.Notify(ctx, hook.AppBegin, descriptor)
//
// # Short-circuit contract
//
// A subscriber may return a non-nil decision. The decision stops the chain for
// that notification and is returned to the caller of Notify. Returning nil
// lets the next subscriber run. Errors are never swallowed: the first error
// stops the chain and is returned as is.
//
// # Named behaviors
//
// Subscribers can be registered under a behavior name with [Bus.Register] and
// attached to hooks later by name with [Bus.ImportNamed]. This is how tags
// files (hook name -> behavior names) are wired without reflection.
//
// [Bus.Fork] gives a scope its own subscriber lists over the same behaviors.
// Each module keeps its tags on a fork, and the pipeline notifies the app
// bus first, then the fork of the request module.
package hook
