package pagescmd

// FeatureGates exposes runtime feature toggles required by page command
// handlers. Callers inject closures wired to the runtime configuration so
// handlers stay decoupled from the config type.
type FeatureGates struct {
	// VersioningEnabled should return true when publish/rollback versioning is enabled.
	VersioningEnabled func() bool
	// SchedulingEnabled should return true when scheduling workflows are enabled.
	SchedulingEnabled func() bool
}

func (g FeatureGates) versioningEnabled() bool {
	if g.VersioningEnabled == nil {
		return true
	}
	return g.VersioningEnabled()
}

func (g FeatureGates) schedulingEnabled() bool {
	if g.SchedulingEnabled == nil {
		return true
	}
	return g.SchedulingEnabled()
}
