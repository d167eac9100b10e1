package xmlenv

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/udisondev/clanserver/internal/clanerr"
)

// Fixed response headers the client validates on every reply
// (spec.md §4.4).
const (
	HeaderMessageType = "Message-Type"
	HeaderVersion     = "Version"
	HeaderContentType = "Content-Type"

	messageTypeValue = "x-ps3-clan"
	versionValue     = "1.00"
	contentTypeValue = "application/x-ps3-clan"
)

// SetHeaders writes the three fixed headers every response carries,
// success or error alike.
func SetHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set(HeaderMessageType, messageTypeValue)
	h.Set(HeaderVersion, versionValue)
	h.Set(HeaderContentType, contentTypeValue)
}

// envelope is the outer <clan result="HH">...</clan> wrapper. Body is
// pre-serialized markup emitted verbatim via innerxml — escaping must
// not run a second time over entities the caller already serialized
// (spec.md §4.4).
type envelope struct {
	XMLName xml.Name `xml:"clan"`
	Result  string   `xml:"result,attr"`
	Body    []byte   `xml:",innerxml"`
}

// list is the <list results="R" total="T"> wrapper for multi-entity
// payloads (spec.md §4.4).
type list struct {
	XMLName xml.Name `xml:"list"`
	Results int      `xml:"results,attr"`
	Total   int64    `xml:"total,attr"`
	Body    []byte   `xml:",innerxml"`
}

// Entity is anything that renders itself to the fixed XML shape given
// in spec.md §6 for its operation (ClanInfo, PlayerInfo, ...).
type Entity interface {
	MarshalEntity() ([]byte, error)
}

func write(w http.ResponseWriter, code clanerr.Code, body []byte) {
	SetHeaders(w)
	w.WriteHeader(code.HTTPStatus())

	env := envelope{Result: code.Hex(), Body: body}
	out, err := xml.Marshal(env)
	if err != nil {
		return
	}
	w.Write([]byte(xml.Header))
	w.Write(out)
}

// WriteEmpty emits the envelope with no payload — used for both
// successful no-content operations and all error responses.
func WriteEmpty(w http.ResponseWriter, code clanerr.Code) {
	write(w, code, nil)
}

// WriteItem emits a single entity payload wrapped in the envelope.
func WriteItem(w http.ResponseWriter, e Entity) {
	body, err := e.MarshalEntity()
	if err != nil {
		WriteEmpty(w, clanerr.InternalServerError)
		return
	}
	write(w, clanerr.Success, body)
}

// WriteList emits entities as direct children of <list results="R"
// total="T">, R being the count in this response (post-pagination)
// and T the pre-pagination match count (spec.md §4.4).
func WriteList(w http.ResponseWriter, entities []Entity, total int64) {
	var body []byte
	for _, e := range entities {
		b, err := e.MarshalEntity()
		if err != nil {
			WriteEmpty(w, clanerr.InternalServerError)
			return
		}
		body = append(body, b...)
	}
	l := list{Results: len(entities), Total: total, Body: body}
	listBytes, err := xml.Marshal(l)
	if err != nil {
		WriteEmpty(w, clanerr.InternalServerError)
		return
	}
	write(w, clanerr.Success, listBytes)
}

// WriteError emits the standard error envelope: the mapped code, an
// empty payload (spec.md §7: "All errors emit the standard envelope
// with the error code in result=; payload is empty").
func WriteError(w http.ResponseWriter, err error) {
	var ce *clanerr.Error
	if asClanErr(err, &ce) {
		WriteEmpty(w, ce.Code)
		return
	}
	WriteEmpty(w, clanerr.InternalServerError)
}

func asClanErr(err error, target **clanerr.Error) bool {
	for err != nil {
		if ce, ok := err.(*clanerr.Error); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Tag renders "<name>value</name>" with value escaped as chardata.
func Tag(name string, value any) []byte {
	type leaf struct {
		XMLName xml.Name
		Value   string `xml:",chardata"`
	}
	out, err := xml.Marshal(leaf{XMLName: xml.Name{Local: name}, Value: fmt.Sprint(value)})
	if err != nil {
		return nil
	}
	return out
}

// Wrap renders "<name attr="...">...</name>" around pre-built inner
// markup without re-escaping it, per the nested-entity rule in
// spec.md §4.4. attr values are escaped normally.
func Wrap(name string, attrs [][2]string, inner []byte) []byte {
	var buf []byte
	buf = append(buf, '<')
	buf = append(buf, name...)
	for _, a := range attrs {
		buf = append(buf, ' ')
		buf = append(buf, a[0]...)
		buf = append(buf, '=', '"')
		buf = append(buf, xmlAttrEscape(a[1])...)
		buf = append(buf, '"')
	}
	buf = append(buf, '>')
	buf = append(buf, inner...)
	buf = append(buf, '<', '/')
	buf = append(buf, name...)
	buf = append(buf, '>')
	return buf
}

func xmlAttrEscape(s string) string {
	var buf []byte
	xml.EscapeText(xmlBufWriter{&buf}, []byte(s))
	return string(buf)
}

type xmlBufWriter struct{ buf *[]byte }

func (w xmlBufWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
