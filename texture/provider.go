package texture

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// NullProvider is a DeviceProvider for CPU-only hosts. It has no device
// and reports no surface format, so DefaultFormat falls back to
// PlatformFormat.
type NullProvider struct{}

// Device returns nil.
func (NullProvider) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (NullProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (NullProvider) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter.
func (NullProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns TextureFormatUndefined.
func (NullProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ gpucontext.DeviceProvider = NullProvider{}
