// Package winsvc implements the service and pointer capabilities on top of the
// Windows service control manager and registry.
package winsvc

import "errors"

// ErrUnsupported is returned on platforms without a Windows service manager.
var ErrUnsupported = errors.New("windows services are not supported on this platform")
