package provider

import "context"

// Capability names a logical operation a provider can serve, e.g. "quote",
// "profile" or "market-insight". Capability constants live with the domain
// packages that define their parameter contracts.
type Capability string

// Invoker executes a single logical operation against an upstream vendor.
// Implementations must honor ctx cancellation and should return errors
// normalized to the invocation kinds in the errors package; anything else is
// normalized by the dispatcher.
type Invoker interface {
	Invoke(ctx context.Context, capability Capability, params map[string]any) (any, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, capability Capability, params map[string]any) (any, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, capability Capability, params map[string]any) (any, error) {
	return f(ctx, capability, params)
}
