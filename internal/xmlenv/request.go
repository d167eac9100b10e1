// Package xmlenv implements the request/response XML envelope: a
// generic outer-element parser that hands the handler the XML root's
// sole inner payload, and a response emitter for the fixed
// <clan result="HH">...</clan> framing.
//
// Grounded on the teacher's internal/gameserver/packet/reader.go
// discipline (one type owning decode position, typed errors) and
// internal/gameserver/serverpackets' one-writer-type-per-shape
// convention, both re-expressed over encoding/xml.
package xmlenv

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/udisondev/clanserver/internal/clanerr"
)

// rawElement captures an XML element's name and unparsed inner bytes,
// letting the outer wrapper element be arbitrary (spec.md §4.3).
type rawElement struct {
	XMLName xml.Name
	Inner   []byte `xml:",innerxml"`
}

// ParsePayload reads body as `<ROOT><payload .../></ROOT>`, decodes
// ROOT generically, then unmarshals its sole inner element into dst.
func ParsePayload(body io.Reader, dst any) error {
	var outer rawElement
	if err := xml.NewDecoder(body).Decode(&outer); err != nil {
		return clanerr.New(clanerr.InvalidNpMessageFormat, "decoding request envelope: %v", err)
	}
	if len(bytes.TrimSpace(outer.Inner)) == 0 {
		return clanerr.New(clanerr.InvalidNpMessageFormat, "request envelope has no payload")
	}

	// innerxml is a fragment, not a well-formed document with a single
	// root, so wrap it before unmarshaling dst.
	var wrapped bytes.Buffer
	wrapped.WriteString("<_>")
	wrapped.Write(outer.Inner)
	wrapped.WriteString("</_>")

	if err := xml.NewDecoder(&wrapped).Decode(dst); err != nil {
		return clanerr.New(clanerr.InvalidNpMessageFormat, "decoding request payload: %v", err)
	}
	return nil
}

// ClampStart clamps a 1-based pagination start to a 0-based skip,
// per spec.md §4.3 ("negative start values must be clamped to 0").
func ClampStart(start int32) int {
	s := int(start) - 1
	if s < 0 {
		return 0
	}
	return s
}
