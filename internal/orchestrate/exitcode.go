package orchestrate

// Exit codes (spec.md §6): 0 on success, 1 on a fatal external failure in
// the primary path or a blocked CRD policy.
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

// DetermineExitCode is a pure function of whether the run itself errored and
// whether the CRD policy blocked. runErr takes precedence: a fatal external
// failure means the CRD report (if any) never completed meaningfully.
func DetermineExitCode(runErr error, result Result) int {
	if runErr != nil {
		return ExitCodeFailure
	}

	if result.CrdReport != nil && result.CrdReport.PolicyResult != nil && result.CrdReport.PolicyResult.Blocked {
		return ExitCodeFailure
	}

	return ExitCodeSuccess
}
