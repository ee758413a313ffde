package status

// Release is the latestRelease selection of a GitHub repository.
type Release struct {
	TagName string `json:"tagName"`
}

// RepositoryResult is one aliased repository in the batched query result.
// LatestRelease is nil when the repository has no release.
type RepositoryResult struct {
	LatestRelease *Release `json:"latestRelease"`
}

// BatchResult is the data object of the batched query, keyed by FieldName.
// A missing key and a nil value are both treated as "no release".
type BatchResult map[string]*RepositoryResult

// LatestTag returns the latest release tag stored under field, or nil when
// the key, the repository or its release is absent.
func (b BatchResult) LatestTag(field string) *string {
	repo, ok := b[field]
	if !ok || repo == nil || repo.LatestRelease == nil {
		return nil
	}
	tag := repo.LatestRelease.TagName
	return &tag
}

// Apply merges a classification into a copy of r.
func (r Row) Apply(res Result) Row {
	r.Status = res.Status
	r.StatusError = res.Error
	r.UpstreamVersion = res.UpstreamVersion
	return r
}

// ResolveAll classifies every row against result and returns them ordered
// by urgency. It never drops a row and never fails: a row with missing or
// malformed data comes back as StatusIndeterminate.
func ResolveAll(rows []Row, result BatchResult) []Row {
	resolved := make([]Row, 0, len(rows))
	for _, r := range rows {
		latest := result.LatestTag(FieldName(r.Name, r.Registry))
		resolved = append(resolved, r.Apply(Classify(r.DeclaredUpstream, latest)))
	}
	return Order(resolved)
}
