//go:build unix

package probe

func newPlatformProber(opts Options) Prober {
	if opts.Advisory {
		return AdvisoryProbe{}
	}
	return UnsupportedProbe{}
}
