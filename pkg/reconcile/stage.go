package reconcile

import "github.com/agentstation/pmfscale/pkg/constants"

// Stage is a progress checkpoint of a run. Its value is the percentage of
// the run completed when the checkpoint is reached.
type Stage int

// Checkpoints, in the order a run reaches them.
const (
	StageFactLoaded       Stage = constants.ProgressFactLoaded
	StageColumnsResolved  Stage = constants.ProgressColumnsResolved
	StageMultipliersBuilt Stage = constants.ProgressMultipliersBuilt
	StageSkipRulesBuilt   Stage = constants.ProgressSkipRulesBuilt
	StageScalingApplied   Stage = constants.ProgressScalingApplied
	StageAuditReady       Stage = constants.ProgressAuditReady
)

// Stages lists every checkpoint in order.
func Stages() []Stage {
	return []Stage{
		StageFactLoaded,
		StageColumnsResolved,
		StageMultipliersBuilt,
		StageSkipRulesBuilt,
		StageScalingApplied,
		StageAuditReady,
	}
}

// Percent returns the completion percentage.
func (s Stage) Percent() int {
	return int(s)
}

// String returns a short description of the checkpoint.
func (s Stage) String() string {
	switch s {
	case StageFactLoaded:
		return "fact table loaded"
	case StageColumnsResolved:
		return "columns resolved"
	case StageMultipliersBuilt:
		return "multipliers indexed"
	case StageSkipRulesBuilt:
		return "skip rules indexed"
	case StageScalingApplied:
		return "scaling applied"
	case StageAuditReady:
		return "audit log ready"
	default:
		return "unknown"
	}
}
