package identity

import "errors"

// ErrNoHost is wrapped into the error Derive returns when neither the
// URI nor the configured default filesystem can supply a host.
var ErrNoHost = errors.New("identity: no host available")
