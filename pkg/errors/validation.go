package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a DAppNode package name such as
// "geth.dnp.dappnode.eth".
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 256 characters
//   - No whitespace or control characters
//   - No path separators (names end up in URLs)
//   - At least one "." separating the short name from the registry
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", name)
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPackage, "package name cannot contain path separators: %q", name)
	}

	short, rest, ok := strings.Cut(name, ".")
	if !ok || short == "" || rest == "" {
		return New(ErrCodeInvalidPackage, "package name must look like <name>.<registry>: %q", name)
	}

	return nil
}

// ValidateContentURI validates a content-addressed release location
// ("/ipfs/<cid>") and returns the CID.
func ValidateContentURI(uri string) (string, error) {
	cid, ok := strings.CutPrefix(strings.TrimSpace(uri), "/ipfs/")
	if !ok {
		return "", New(ErrCodeInvalidManifest, "content URI must start with /ipfs/: %q", uri)
	}
	cid = strings.TrimSuffix(cid, "/")
	if cid == "" || strings.ContainsAny(cid, "/\\?#") {
		return "", New(ErrCodeInvalidManifest, "invalid content identifier in %q", uri)
	}
	return cid, nil
}
