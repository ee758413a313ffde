package status

// Messages attached to indeterminate results, one per failure cause.
const (
	MsgLatestNotFound      = "latest upstream version not found in remote source"
	MsgDeclaredMissing     = "upstream version not declared by package"
	MsgLatestInvalid       = "latest upstream version is not a valid semantic version"
	MsgDeclaredInvalid     = "declared upstream version is not a valid semantic version"
	MsgNormalizationFailed = "failed to normalize latest upstream version"
)

// Result is the outcome of classifying one package.
type Result struct {
	Status          Status
	Error           string // set iff Status is StatusIndeterminate
	UpstreamVersion string // normalized latest version on success
}

func indeterminate(msg string) Result {
	return Result{Status: StatusIndeterminate, Error: msg}
}

// Classify compares the upstream version a package declares against the
// latest upstream release tag. A nil or empty latest tag means the remote
// source had no release for the package.
//
// The checks run in a fixed order and the first failing one decides the
// message: latest tag present, declared version present, latest tag valid,
// declared version valid, latest tag normalizable.
func Classify(declared string, latest *string) Result {
	if latest == nil || *latest == "" {
		return indeterminate(MsgLatestNotFound)
	}
	if declared == "" {
		return indeterminate(MsgDeclaredMissing)
	}
	if !Valid(*latest) {
		return indeterminate(MsgLatestInvalid)
	}
	declaredVersion, ok := parse(declared)
	if !ok {
		return indeterminate(MsgDeclaredInvalid)
	}

	normalized := Clean(*latest)
	if normalized == "" {
		return indeterminate(MsgNormalizationFailed)
	}
	latestVersion, ok := parse(normalized)
	if !ok {
		return indeterminate(MsgNormalizationFailed)
	}

	kind := diff(declaredVersion, latestVersion)
	if kind == "" {
		kind = StatusUpdated
	}
	return Result{Status: kind, UpstreamVersion: normalized}
}
