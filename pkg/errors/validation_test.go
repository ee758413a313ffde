package errors

import (
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid dnp", "geth.dnp.dappnode.eth", false},
		{"valid public", "nethermind.public.dappnode.eth", false},
		{"valid with dash", "mev-boost-holesky.dnp.dappnode.eth", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"no registry", "geth", true},
		{"leading dot", ".dnp.dappnode.eth", true},
		{"trailing dot only", "geth.", true},
		{"whitespace", "geth .dnp.dappnode.eth", true},
		{"control char", "geth\x00.dnp.dappnode.eth", true},
		{"path separator", "../geth.dnp.dappnode.eth", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("ValidatePackageName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidateContentURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "/ipfs/QmYfVW2LNHH8ZXa6KJmfFAz5zCQ8YHh2ZPt6aQmezJcbL7", "QmYfVW2LNHH8ZXa6KJmfFAz5zCQ8YHh2ZPt6aQmezJcbL7", false},
		{"trailing slash", "/ipfs/bafybeih/", "bafybeih", false},
		{"no prefix", "QmYfVW2LNHH8ZXa6KJmfFAz5zCQ8YHh2ZPt6aQmezJcbL7", "", true},
		{"empty cid", "/ipfs/", "", true},
		{"nested path", "/ipfs/Qm/avatar.png", "", true},
		{"query", "/ipfs/Qm?x=1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateContentURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateContentURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateContentURI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidPackage,
		ErrCodeInvalidUpstreamRepo,
		ErrCodeInvalidManifest,
		ErrCodeInvalidConfig,
		ErrCodeUnknownRegistry,
		ErrCodePackageNotFound,
		ErrCodeManifestNotFound,
		ErrCodeRateLimited,
		ErrCodeQueryFailed,
		ErrCodeUnauthorized,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
