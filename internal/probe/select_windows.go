//go:build windows

package probe

func newPlatformProber(_ Options) Prober {
	return NativeProbe{}
}
