package status

import "strings"

// BucketOther collects statuses outside the chart buckets.
const BucketOther = "other"

// ChartBuckets lists the summary buckets in display order.
var ChartBuckets = []string{
	string(StatusUpdated),
	string(StatusPatch),
	string(StatusMinor),
	string(StatusMajor),
	string(StatusPremajor),
	string(StatusPreminor),
	string(StatusPrepatch),
	string(StatusPrerelease),
	string(StatusIndeterminate),
	BucketOther,
}

// Count is one bar of the summary chart.
type Count struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

// Summary counts rows per status bucket.
type Summary struct {
	Total    int     `json:"total"`
	Outdated int     `json:"outdated"`
	Counts   []Count `json:"counts"`
}

// Summarize counts rows per bucket. Buckets with no rows are omitted and
// pending rows are counted as "other".
func Summarize(rows []Row) Summary {
	counts := make(map[string]int, len(ChartBuckets))
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		bucket := BucketOther
		if r.Status.Known() && r.Status != StatusPending {
			bucket = string(r.Status)
		}
		counts[bucket]++
		if r.Status.Outdated() {
			s.Outdated++
		}
	}
	for _, b := range ChartBuckets {
		if n := counts[b]; n > 0 {
			s.Counts = append(s.Counts, Count{Bucket: b, Count: n, Color: Color(Status(b))})
		}
	}
	return s
}

// Filter returns the rows whose name, registry, update status or upstream
// repository contains query, ignoring case. An empty query returns rows unchanged.
func Filter(rows []Row, query string) []Row {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	var out []Row
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(string(r.Registry)), q) ||
			strings.Contains(strings.ToLower(string(r.Status)), q) ||
			strings.Contains(strings.ToLower(r.UpstreamRepo), q) {
			out = append(out, r)
		}
	}
	return out
}
