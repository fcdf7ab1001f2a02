package dispatch

// Options tune a single dispatch.
type Options struct {
	Tag        string
	Data       map[string]string
	ForceLocal bool
}

// Result reports which channels delivered. FallbackUsed is true only
// when local delivery happened specifically because the relay attempt
// failed, not because of the device class or ForceLocal.
type Result struct {
	Server       bool `json:"server"`
	Local        bool `json:"local"`
	FallbackUsed bool `json:"fallback_used"`
}

// DeviceClass tells the dispatch policy whether the installation runs
// on a mobile device, where background relay delivery is unreliable
// and a local copy is always wanted.
type DeviceClass interface {
	IsMobile() bool
}

// StaticDeviceClass is a DeviceClass fixed at construction.
type StaticDeviceClass bool

func (s StaticDeviceClass) IsMobile() bool {
	return bool(s)
}
