package xmlenv

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/clanserver/internal/clanerr"
)

type fakeEntity struct{ markup []byte }

func (f fakeEntity) MarshalEntity() ([]byte, error) { return f.markup, nil }

func TestWriteItem_EmitsEnvelopeWithHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteItem(rec, fakeEntity{markup: Tag("name", "Knights")})

	assert.Equal(t, "x-ps3-clan", rec.Header().Get(HeaderMessageType))
	assert.Equal(t, "1.00", rec.Header().Get(HeaderVersion))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `result="00"`)
	assert.Contains(t, rec.Body.String(), `<name>Knights</name>`)
}

func TestWriteList_ResultsIsPostPaginationTotalIsPrePagination(t *testing.T) {
	rec := httptest.NewRecorder()
	entities := []Entity{
		fakeEntity{markup: Tag("id", 1)},
		fakeEntity{markup: Tag("id", 2)},
	}
	WriteList(rec, entities, 57)

	body := rec.Body.String()
	assert.Contains(t, body, `results="2"`)
	assert.Contains(t, body, `total="57"`)
}

func TestWriteError_UsesWrappedClanErrCode(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := clanerrWrap(clanerr.ErrNoSuchClan(9))
	WriteError(rec, wrapped)

	assert.Equal(t, clanerr.NoSuchClan.HTTPStatus(), rec.Code)
	assert.Contains(t, rec.Body.String(), `result="30"`)
}

func TestWriteError_FallsBackToInternalServerErrorForUnknownErr(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, assertionError{})

	assert.Equal(t, clanerr.InternalServerError.HTTPStatus(), rec.Code)
	assert.Contains(t, rec.Body.String(), `result="07"`)
}

func TestTag_EscapesChardata(t *testing.T) {
	out := Tag("name", "Tom & Jerry")
	assert.Equal(t, "<name>Tom &amp; Jerry</name>", string(out))
}

func TestWrap_DoesNotReescapeInnerMarkup(t *testing.T) {
	inner := Tag("name", "Tom & Jerry")
	out := Wrap("info", [][2]string{{"id", "3"}}, inner)
	assert.Equal(t, `<info id="3"><name>Tom &amp; Jerry</name></info>`, string(out))
}

func TestWrap_EscapesAttributeValues(t *testing.T) {
	out := Wrap("info", [][2]string{{"name", "Tom & Jerry"}}, nil)
	assert.Equal(t, `<info name="Tom &amp; Jerry"></info>`, string(out))
}

// wrapErr lets tests exercise asClanErr's Unwrap chain walk.
type wrapErr struct{ inner error }

func (w wrapErr) Error() string { return w.inner.Error() }
func (w wrapErr) Unwrap() error { return w.inner }

func clanerrWrap(err error) error { return wrapErr{inner: err} }

type assertionError struct{}

func (assertionError) Error() string { return "boom" }

func TestAsClanErr_WalksUnwrapChain(t *testing.T) {
	var ce *clanerr.Error
	ok := asClanErr(clanerrWrap(clanerrWrap(clanerr.ErrForbidden("nope"))), &ce)
	require.True(t, ok)
	assert.Equal(t, clanerr.PermissionDenied, ce.Code)
}
