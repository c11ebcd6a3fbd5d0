package domain

import "strings"

// Encryption is a tagged enum for AP encryption, used instead of raw
// string comparison against the wire value reported by a sensor
// collaborator (per the design note on dynamic dict-typed AP records).
type Encryption string

const (
	EncOpen    Encryption = "OPEN"
	EncWEP     Encryption = "WEP"
	EncWPA     Encryption = "WPA"
	EncWPA2    Encryption = "WPA2"
	EncWPA3    Encryption = "WPA3"
	EncSAE     Encryption = "SAE"
	EncUnknown Encryption = ""
)

// ParseEncryption normalizes a sensor-reported encryption tag into an
// Encryption value. Unrecognized non-empty tags are preserved verbatim
// (uppercased) so scoring code can still pattern-match on substrings
// like "WPA2-ENTERPRISE".
func ParseEncryption(raw string) Encryption {
	return Encryption(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsOpen reports whether the encryption tag represents an unattackable,
// unencrypted network (empty or explicitly OPEN).
func (e Encryption) IsOpen() bool {
	return e == EncOpen || e == EncUnknown
}

// Contains reports whether the encryption tag contains the given
// substring, case-insensitively normalized (both sides are already
// upper-cased by ParseEncryption, but this guards direct construction).
func (e Encryption) Contains(substr string) bool {
	return strings.Contains(string(e), strings.ToUpper(substr))
}
