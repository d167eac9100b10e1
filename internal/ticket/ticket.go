// Package ticket decodes and verifies the binary session ticket
// embedded base64-encoded in every request payload (spec.md §4.1).
//
// The format is a fixed-offset binary layout, endian-sensitive and
// versioned, grounded on the teacher's own fixed-offset binary reads
// in internal/protocol/packet.go (encoding/binary, explicit buffer
// bounds) and the one-holder-type-per-algorithm shape of
// internal/crypto/rsa.go.
package ticket

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// Version enumerates the four recognized ticket layouts.
type Version uint16

const (
	VersionV2  Version = 0x2100
	VersionV21 Version = 0x2101
	VersionV3  Version = 0x3100
	VersionV4  Version = 0x4100
)

func (v Version) valid() bool {
	switch v {
	case VersionV2, VersionV21, VersionV3, VersionV4:
		return true
	default:
		return false
	}
}

// SignerKind discriminates the ticket's signer.
type SignerKind int

const (
	SignerConsole SignerKind = iota
	SignerEmulator
)

// Signature carries the signer discriminant and the signed/signature
// byte ranges computed from the ticket's version and total length.
type Signature struct {
	Kind SignerKind

	// SignedRange is [start:end) of the bytes the signature covers.
	SignedRange [2]int
	// Bytes is the raw signature tail.
	Bytes []byte
}

// Ticket is the decoded, validated session credential.
type Ticket struct {
	Version    Version
	Serial     string
	IssuerID   uint32
	IssuedAt   time.Time
	ExpiresAt  time.Time
	AccountID  uint64
	Username   string
	Region     string
	Domain     string
	ServiceID  string
	Status     uint32
	Signature  Signature

	raw []byte
}

// Raw returns the decoded (possibly endian-repaired) ticket bytes.
func (t Ticket) Raw() []byte { return t.raw }

// DecodeError classifies why decode/verification failed so handlers
// can map it to the exact spec.md §7 result code.
type DecodeError struct {
	Kind    string
	Message string
}

func (e *DecodeError) Error() string { return fmt.Sprintf("ticket %s: %s", e.Kind, e.Message) }

func decodeErr(kind, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

const (
	minLen = 212
	maxLen = 400
)

// offsets holds the fixed field positions for the V2/V2.1/V3 layout
// and the shifted V4 layout, per spec.md §4.1 steps 3-4.
type offsets struct {
	serial    [2]int
	issuerID  [2]int
	issuedAt  [2]int
	expiresAt [2]int
	accountID [2]int
	username  [2]int
	region    [2]int
	domain    [2]int
	serviceID [2]int
	status    [2]int
	sigTag    [2]int
}

var legacyOffsets = offsets{
	serial:    [2]int{0x10, 0x24},
	issuerID:  [2]int{0x28, 0x2C},
	issuedAt:  [2]int{0x30, 0x38},
	expiresAt: [2]int{0x3C, 0x44},
	accountID: [2]int{0x48, 0x50},
	username:  [2]int{0x54, 0x74},
	region:    [2]int{0x78, 0x7A},
	domain:    [2]int{0x80, 0x82},
	serviceID: [2]int{0x88, 0x9B},
	status:    [2]int{0xA4, 0xA8},
	sigTag:    [2]int{0xB8, 0xBC},
}

var v4Offsets = offsets{
	serial:    [2]int{0x14, 0x28},
	issuerID:  [2]int{0x2C, 0x30},
	issuedAt:  [2]int{0x34, 0x3C},
	expiresAt: [2]int{0x40, 0x48},
	accountID: [2]int{0x4C, 0x54},
	username:  [2]int{0x58, 0x78},
	region:    [2]int{0x7C, 0x7E},
	domain:    [2]int{0x84, 0x86},
	serviceID: [2]int{0x8C, 0x9F},
	status:    [2]int{0, 0}, // unused for V4 (not consumed downstream)
	sigTag:    [2]int{0xC0, 0xC4},
}

func offsetsFor(v Version) offsets {
	if v == VersionV4 {
		return v4Offsets
	}
	return legacyOffsets
}

func sigLengthFor(v Version) int {
	if v == VersionV4 {
		return 32
	}
	return 16
}

func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Decode parses and validates a base64-encoded ticket. now is injected
// so callers (and tests) control the clock used for the +5min/+1year
// bounds and endian-repair logic.
func Decode(b64 string, now time.Time) (Ticket, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Ticket{}, decodeErr("InvalidFormat", "base64 decode: %v", err)
	}
	if len(raw) < minLen || len(raw) > maxLen {
		return Ticket{}, decodeErr("BadLength", "length %d outside [%d,%d]", len(raw), minLen, maxLen)
	}
	if len(raw) < 2 {
		return Ticket{}, decodeErr("InvalidFormat", "buffer too short for version")
	}

	v := Version(binary.BigEndian.Uint16(raw[0:2]))
	if !v.valid() {
		return Ticket{}, decodeErr("UnsupportedVersion", "version 0x%04X", uint16(v))
	}

	off := offsetsFor(v)

	readStr := func(r [2]int) (string, error) {
		if r[1] > len(raw) || r[0] > r[1] {
			return "", decodeErr("InvalidFormat", "field range %v out of bounds", r)
		}
		return cstr(raw[r[0]:r[1]]), nil
	}

	serial, err := readStr(off.serial)
	if err != nil {
		return Ticket{}, err
	}
	username, err := readStr(off.username)
	if err != nil {
		return Ticket{}, err
	}
	region, err := readStr(off.region)
	if err != nil {
		return Ticket{}, err
	}
	domain, err := readStr(off.domain)
	if err != nil {
		return Ticket{}, err
	}
	serviceID, err := readStr(off.serviceID)
	if err != nil {
		return Ticket{}, err
	}

	if off.issuerID[1] > len(raw) || off.issuedAt[1] > len(raw) || off.expiresAt[1] > len(raw) || off.accountID[1] > len(raw) {
		return Ticket{}, decodeErr("InvalidFormat", "numeric field out of bounds")
	}
	issuerID := binary.BigEndian.Uint32(raw[off.issuerID[0]:off.issuerID[1]])
	accountID := binary.BigEndian.Uint64(raw[off.accountID[0]:off.accountID[1]])

	var status uint32
	if v != VersionV4 {
		if off.status[1] > len(raw) {
			return Ticket{}, decodeErr("InvalidFormat", "status field out of bounds")
		}
		status = binary.BigEndian.Uint32(raw[off.status[0]:off.status[1]])
	}

	if off.sigTag[1] > len(raw) {
		return Ticket{}, decodeErr("InvalidFormat", "signature tag out of bounds")
	}
	sigTag := raw[off.sigTag[0]:off.sigTag[1]]
	kind := SignerConsole
	if string(sigTag) == "RPCN" {
		kind = SignerEmulator
	}

	issuedMs, expiresMs, err := readAndRepairDates(raw, off, now)
	if err != nil {
		return Ticket{}, err
	}

	if domain == "" {
		domain = "un"
	}
	if region == "" {
		region = "br"
	}

	sigLen := sigLengthFor(v)
	sig, err := computeSignature(raw, v, kind, sigLen)
	if err != nil {
		return Ticket{}, err
	}

	return Ticket{
		Version:   v,
		Serial:    serial,
		IssuerID:  issuerID,
		IssuedAt:  time.UnixMilli(int64(issuedMs)).UTC(),
		ExpiresAt: time.UnixMilli(int64(expiresMs)).UTC(),
		AccountID: accountID,
		Username:  username,
		Region:    region,
		Domain:    domain,
		ServiceID: serviceID,
		Status:    status,
		Signature: sig,
		raw:       raw,
	}, nil
}

// readAndRepairDates validates the issued_at/expires_at fields and, on
// failure, byte-reverses both 8-byte fields in place and retries once
// (spec.md §4.1 step 7 — observed clients of differing builds emit
// timestamps in opposite endianness).
func readAndRepairDates(raw []byte, off offsets, now time.Time) (uint64, uint64, error) {
	if off.issuedAt[1] > len(raw) || off.expiresAt[1] > len(raw) {
		return 0, 0, decodeErr("InvalidFormat", "date fields out of bounds")
	}

	read := func() (uint64, uint64) {
		return binary.BigEndian.Uint64(raw[off.issuedAt[0]:off.issuedAt[1]]),
			binary.BigEndian.Uint64(raw[off.expiresAt[0]:off.expiresAt[1]])
	}

	issued, expires := read()
	if validDates(issued, expires, now) {
		return issued, expires, nil
	}

	reverse8(raw[off.issuedAt[0]:off.issuedAt[1]])
	reverse8(raw[off.expiresAt[0]:off.expiresAt[1]])
	issued, expires = read()
	if validDates(issued, expires, now) {
		return issued, expires, nil
	}

	return 0, 0, decodeErr("BadDates", "issued=%d expires=%d fail validation after endian repair", issued, expires)
}

func reverse8(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func validDates(issuedMs, expiresMs uint64, now time.Time) bool {
	if issuedMs == 0 || expiresMs == 0 {
		return false
	}
	if expiresMs <= issuedMs {
		return false
	}
	issued := time.UnixMilli(int64(issuedMs))
	expires := time.UnixMilli(int64(expiresMs))
	if issued.After(now.Add(5 * time.Minute)) {
		return false
	}
	if expires.After(now.Add(365 * 24 * time.Hour)) {
		return false
	}
	return true
}

// computeSignature derives the signed byte range and signature bytes
// per spec.md §4.1 step 9. The Emulator has no V4 support.
func computeSignature(raw []byte, v Version, kind SignerKind, sigLen int) (Signature, error) {
	n := len(raw)

	if kind == SignerEmulator {
		if v == VersionV4 {
			return Signature{}, decodeErr("UnsupportedVersion", "emulator signer has no V4 support")
		}
		return Signature{
			Kind:        kind,
			SignedRange: [2]int{0x08, 0xB0},
			Bytes:       raw[0xC0:],
		}, nil
	}

	end := n - sigLen - 16
	if end < 0x08 || end > n {
		return Signature{}, decodeErr("BadLength", "signed range end %d invalid for length %d", end, n)
	}
	return Signature{
		Kind:        kind,
		SignedRange: [2]int{0x08, end},
		Bytes:       raw[n-sigLen:],
	}, nil
}
