package model

// ApplicationInfo carries build metadata set via ldflags.
type ApplicationInfo struct {
	Revision    string
	Branch      string
	Environment string
}
