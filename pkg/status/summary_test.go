package status

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize(t *testing.T) {
	rows := []Row{
		{Status: StatusMajor},
		{Status: StatusUpdated},
		{Status: StatusUpdated},
		{Status: StatusIndeterminate},
		{Status: StatusPending},
		{Status: StatusPrepatch},
	}

	got := Summarize(rows)
	want := Summary{
		Total:    6,
		Outdated: 2,
		Counts: []Count{
			{Bucket: "updated", Count: 2, Color: "lightgreen"},
			{Bucket: "major", Count: 1, Color: "lightcoral"},
			{Bucket: "prepatch", Count: 1, Color: "lightblue"},
			{Bucket: "NA", Count: 1, Color: "lightgray"},
			{Bucket: "other", Count: 1, Color: "lightgray"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.Total != 0 || len(got.Counts) != 0 {
		t.Errorf("Summarize(nil) = %+v", got)
	}
}

func TestFilter(t *testing.T) {
	rows := []Row{
		{Name: "geth.dnp.dappnode.eth", Registry: RegistryDNP, UpstreamRepo: "ethereum/go-ethereum", Status: StatusMajor},
		{Name: "nethermind.public.dappnode.eth", Registry: RegistryPublic, UpstreamRepo: "NethermindEth/nethermind", Status: StatusUpdated},
		{Name: "teku.dnp.dappnode.eth", Registry: RegistryDNP, UpstreamRepo: "Consensys/teku", Status: StatusIndeterminate},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"geth.dnp.dappnode.eth", "nethermind.public.dappnode.eth", "teku.dnp.dappnode.eth"}},
		{"GETH", []string{"geth.dnp.dappnode.eth"}},
		{"public", []string{"nethermind.public.dappnode.eth"}},
		{"consensys", []string{"teku.dnp.dappnode.eth"}},
		{"major", []string{"geth.dnp.dappnode.eth"}},
		{"na", []string{"teku.dnp.dappnode.eth"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		var got []string
		for _, r := range Filter(rows, tt.query) {
			got = append(got, r.Name)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}

func TestStatusHelpers(t *testing.T) {
	if !StatusMajor.Outdated() || StatusUpdated.Outdated() || StatusIndeterminate.Outdated() {
		t.Error("Outdated() misclassifies statuses")
	}
	if Status("weird").Known() {
		t.Error("unknown status reported as known")
	}
	if Status("weird").Rank() <= StatusPending.Rank() {
		t.Error("unknown status must rank after pending")
	}
	if Color("weird") != "lightgray" {
		t.Errorf("Color(weird) = %q", Color("weird"))
	}
}
