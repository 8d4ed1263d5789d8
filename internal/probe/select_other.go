//go:build !unix && !windows

package probe

func newPlatformProber(_ Options) Prober {
	return UnsupportedProbe{}
}
