package status

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		name     string
		registry Registry
		want     string
	}{
		{"geth.dnp.dappnode.eth", RegistryDNP, "rdnpgeth"},
		{"nethermind.public.dappnode.eth", RegistryPublic, "rpublicnethermind"},
		{"mev-boost-holesky.dnp.dappnode.eth", RegistryDNP, "rdnpmev_boost_holesky"},
		{"noseparator", RegistryDNP, "rdnpnoseparator"},
		{"geth", "my-registry", "rmy_registrygeth"},
	}

	for _, tt := range tests {
		if got := FieldName(tt.name, tt.registry); got != tt.want {
			t.Errorf("FieldName(%q, %q) = %q, want %q", tt.name, tt.registry, got, tt.want)
		}
	}
}

func TestFieldNameRegistryDisambiguates(t *testing.T) {
	if FieldName("geth", RegistryDNP) == FieldName("geth", RegistryPublic) {
		t.Error("same name in different registries must not collide")
	}
}

func TestDetectCollisions(t *testing.T) {
	rows := []Row{
		{Name: "geth.dnp.dappnode.eth", Registry: RegistryDNP},
		{Name: "geth.other.dnp.dappnode.eth", Registry: RegistryDNP},
		{Name: "geth.public.dappnode.eth", Registry: RegistryPublic},
		{Name: "teku.dnp.dappnode.eth", Registry: RegistryDNP},
	}
	got := DetectCollisions(rows)
	want := map[string][]string{
		"rdnpgeth": {"dnp/geth.dnp.dappnode.eth", "dnp/geth.other.dnp.dappnode.eth"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DetectCollisions mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderRanks(t *testing.T) {
	all := []Status{
		StatusPending, StatusIndeterminate, StatusUpdated, StatusPrerelease, StatusPrepatch,
		StatusPatch, StatusPreminor, StatusMinor, StatusPremajor, StatusMajor,
	}
	var rows []Row
	for _, s := range all {
		rows = append(rows, Row{Name: string(s), Status: s})
	}

	got := Order(rows)
	for i := 1; i < len(got); i++ {
		if got[i-1].Status.Rank() >= got[i].Status.Rank() {
			t.Errorf("rows out of order at %d: %s before %s", i, got[i-1].Status, got[i].Status)
		}
	}
	if got[0].Status != StatusMajor || got[len(got)-1].Status != StatusPending {
		t.Errorf("unexpected ends: first %s, last %s", got[0].Status, got[len(got)-1].Status)
	}
}

func TestOrderStable(t *testing.T) {
	rows := []Row{
		{Name: "a", Status: StatusUpdated},
		{Name: "b", Status: StatusMajor},
		{Name: "c", Status: StatusUpdated},
		{Name: "d", Status: StatusMajor},
		{Name: "e", Status: StatusUpdated},
	}
	got := names(Order(rows))
	want := []string{"b", "d", "a", "c", "e"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderIdempotent(t *testing.T) {
	rows := []Row{
		{Name: "a", Status: StatusPending},
		{Name: "b", Status: StatusPatch},
		{Name: "c", Status: StatusIndeterminate},
		{Name: "d", Status: StatusPatch},
		{Name: "e", Status: StatusMinor},
	}
	once := Order(rows)
	twice := Order(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Order(Order(rows)) != Order(rows) (-once +twice):\n%s", diff)
	}
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	rows := []Row{{Name: "a", Status: StatusUpdated}, {Name: "b", Status: StatusMajor}}
	_ = Order(rows)
	if rows[0].Name != "a" {
		t.Error("Order modified its input")
	}
}

func TestOrderUnknownStatus(t *testing.T) {
	rows := []Row{
		{Name: "x", Status: "weird"},
		{Name: "p", Status: StatusPending},
		{Name: "m", Status: StatusMajor},
	}
	got := names(Order(rows))
	want := []string{"m", "p", "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAllScenario(t *testing.T) {
	rows := []Row{
		{Name: "geth.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "1.10.0", Status: StatusPending},
		{Name: "lighthouse.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "4.0.0", Status: StatusPending},
	}
	result := BatchResult{
		"rdnpgeth":       {LatestRelease: &Release{TagName: "v1.11.0"}},
		"rdnplighthouse": {LatestRelease: &Release{TagName: "4.0.0"}},
	}

	got := ResolveAll(rows, result)
	want := []Row{
		{Name: "geth.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "1.10.0", Status: StatusMinor, UpstreamVersion: "1.11.0"},
		{Name: "lighthouse.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "4.0.0", Status: StatusUpdated, UpstreamVersion: "4.0.0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveAll mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAllAbsentShapes(t *testing.T) {
	rows := []Row{
		{Name: "missing.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "1.0.0"},
		{Name: "nilrepo.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "1.0.0"},
		{Name: "norelease.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "1.0.0"},
		{Name: "emptytag.dnp.dappnode.eth", Registry: RegistryDNP, DeclaredUpstream: "1.0.0"},
	}
	result := BatchResult{
		"rdnpnilrepo":   nil,
		"rdnpnorelease": {},
		"rdnpemptytag":  {LatestRelease: &Release{}},
	}

	for _, r := range ResolveAll(rows, result) {
		if r.Status != StatusIndeterminate || r.StatusError != MsgLatestNotFound {
			t.Errorf("%s: got %s %q, want indeterminate %q", r.Name, r.Status, r.StatusError, MsgLatestNotFound)
		}
	}
}

func TestResolveAllPassThrough(t *testing.T) {
	row := Row{
		Name:             "teku.dnp.dappnode.eth",
		Registry:         RegistryDNP,
		Version:          "0.1.30",
		ContentURI:       "/ipfs/QmTeku",
		Status:           StatusPending,
		DeclaredUpstream: "24.1.0",
		RepoURL:          "https://github.com/dappnode/DAppNodePackage-teku",
		UpstreamRepo:     "Consensys/teku",
	}
	got := ResolveAll([]Row{row}, BatchResult{"rdnpteku": {LatestRelease: &Release{TagName: "24.1.0"}}})

	want := row
	want.Status = StatusUpdated
	want.UpstreamVersion = "24.1.0"
	if diff := cmp.Diff([]Row{want}, got); diff != "" {
		t.Errorf("ResolveAll mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAllTotality(t *testing.T) {
	tags := []string{"", "v1.0.0", "2.0.0", "garbage", "1.0.0-rc.1"}
	declared := []string{"", "1.0.0", "bad", "0.9.0"}

	var rows []Row
	result := BatchResult{}
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("pkg%d.dnp.dappnode.eth", i)
		rows = append(rows, Row{Name: name, Registry: RegistryDNP, DeclaredUpstream: declared[i%len(declared)]})
		if i%3 != 0 {
			result[FieldName(name, RegistryDNP)] = &RepositoryResult{LatestRelease: &Release{TagName: tags[i%len(tags)]}}
		}
	}

	got := ResolveAll(rows, result)
	if len(got) != len(rows) {
		t.Fatalf("ResolveAll returned %d rows, want %d", len(got), len(rows))
	}
	seen := make(map[string]bool)
	for _, r := range got {
		seen[r.Key()] = true
		if r.Status == StatusPending {
			t.Errorf("%s left pending", r.Name)
		}
		if (r.Status == StatusIndeterminate) != (r.StatusError != "") {
			t.Errorf("%s: StatusError %q inconsistent with status %s", r.Name, r.StatusError, r.Status)
		}
	}
	for _, r := range rows {
		if !seen[r.Key()] {
			t.Errorf("row %s missing from output", r.Key())
		}
	}
}

func TestResolveAllEmpty(t *testing.T) {
	if got := ResolveAll(nil, nil); len(got) != 0 {
		t.Errorf("ResolveAll(nil, nil) = %v, want empty", got)
	}
}

func TestRegistryOf(t *testing.T) {
	tests := []struct {
		name    string
		want    Registry
		wantErr bool
	}{
		{"geth.dnp.dappnode.eth", RegistryDNP, false},
		{"nethermind.public.dappnode.eth", RegistryPublic, false},
		{"unknown.eth", "", true},
	}
	for _, tt := range tests {
		got, err := RegistryOf(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("RegistryOf(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("RegistryOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}
