package client

import "context"

// Policy tells the interceptor how a request reacts to 401/403.
type Policy int

const (
	// PolicyProtected is the default: refresh once, replay once, and report
	// the session as lost when the refresh fails.
	PolicyProtected Policy = iota
	// PolicyPublic requests never trigger refresh or redirects.
	PolicyPublic
	// PolicyProbe marks the who-am-i request. 401/403 are expected answers.
	PolicyProbe
	// PolicyLogin marks the credentials exchange.
	PolicyLogin
	// PolicyLogout marks the logout call. A 403 means the session was
	// already gone.
	PolicyLogout
	// PolicyRefresh marks the refresh call itself.
	PolicyRefresh
)

func (p Policy) String() string {
	switch p {
	case PolicyProtected:
		return "protected"
	case PolicyPublic:
		return "public"
	case PolicyProbe:
		return "probe"
	case PolicyLogin:
		return "login"
	case PolicyLogout:
		return "logout"
	case PolicyRefresh:
		return "refresh"
	}
	return "unknown"
}

type policyKey struct{}

// WithPolicy returns a context that tags requests built from it with p.
func WithPolicy(ctx context.Context, p Policy) context.Context {
	return context.WithValue(ctx, policyKey{}, p)
}

// PolicyFrom returns the policy carried by ctx, PolicyProtected when none.
func PolicyFrom(ctx context.Context) Policy {
	if p, ok := ctx.Value(policyKey{}).(Policy); ok {
		return p
	}
	return PolicyProtected
}
