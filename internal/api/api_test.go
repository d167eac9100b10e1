package api

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/clanserver/internal/clanconf"
	"github.com/udisondev/clanserver/internal/clanops"
	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/identity"
	"github.com/udisondev/clanserver/internal/ticket"
)

func generateTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return priv
}

func writeTestKey(t *testing.T, dir, name string, priv *ecdsa.PrivateKey) {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".pub"), pem.EncodeToMemory(block), 0o644))
}

var fixedNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// legacy ticket field offsets, mirrored from internal/ticket for
// building request fixtures without reaching into its unexported test
// helpers.
var (
	offSerial    = [2]int{0x10, 0x24}
	offIssuerID  = [2]int{0x28, 0x2C}
	offIssuedAt  = [2]int{0x30, 0x38}
	offExpiresAt = [2]int{0x3C, 0x44}
	offAccountID = [2]int{0x48, 0x50}
	offUsername  = [2]int{0x54, 0x74}
	offRegion    = [2]int{0x78, 0x7A}
	offDomain    = [2]int{0x80, 0x82}
	offServiceID = [2]int{0x88, 0x9B}
	offStatus    = [2]int{0xA4, 0xA8}
	offSigTag    = [2]int{0xB8, 0xBC}
)

// buildTicket assembles a V3 ticket of length n with the given signer
// tag and username, leaving the signature tail zero-filled.
func buildTicket(t *testing.T, n int, sigTag, username string) []byte {
	t.Helper()
	raw := make([]byte, n)
	binary.BigEndian.PutUint16(raw[0:2], 0x3100)
	copy(raw[offSerial[0]:offSerial[1]], "SERIAL123")
	binary.BigEndian.PutUint32(raw[offIssuerID[0]:offIssuerID[1]], 7)
	binary.BigEndian.PutUint64(raw[offIssuedAt[0]:offIssuedAt[1]], uint64(fixedNow.UnixMilli()))
	binary.BigEndian.PutUint64(raw[offExpiresAt[0]:offExpiresAt[1]], uint64(fixedNow.Add(time.Hour).UnixMilli()))
	binary.BigEndian.PutUint64(raw[offAccountID[0]:offAccountID[1]], 42)
	copy(raw[offUsername[0]:offUsername[1]], username)
	copy(raw[offRegion[0]:offRegion[1]], "us")
	copy(raw[offDomain[0]:offDomain[1]], "a1")
	copy(raw[offServiceID[0]:offServiceID[1]], "SVC")
	binary.BigEndian.PutUint32(raw[offStatus[0]:offStatus[1]], 1)
	copy(raw[offSigTag[0]:offSigTag[1]], sigTag)
	return raw
}

func consoleTicketB64(t *testing.T, username string) string {
	t.Helper()
	return b64(buildTicket(t, 220, "PSN\x00", username))
}

func b64(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// newTestServer builds a Server backed by an in-memory store and a
// KeyStore pointed at a temp dir holding a console public key (the
// default non-strict VerifyConsole policy accepts the zero-filled
// signature these fixtures carry, but Verify still loads the key).
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	priv := generateTestKey(t)
	writeTestKey(t, dir, "psn", priv)
	writeTestKey(t, dir, "rpcn", priv)

	svc := &clanops.Service{
		Store:  clanstore.NewMemStore(),
		Limits: clanconf.Default(),
		Now:    func() time.Time { return fixedNow },
	}
	return &Server{
		Service:      svc,
		Keys:         ticket.NewKeyStore(dir),
		VerifyPolicy: ticket.VerifyPolicy{VerifyConsole: false},
		AdminToken:   "s3cr3t",
		Now:          func() time.Time { return fixedNow },
	}
}

// idFromBody pulls the numeric content out of the first "<id>...</id>"
// element in an xmlenv response body.
func idFromBody(t *testing.T, body string) string {
	t.Helper()
	start := strings.Index(body, "<id>")
	require.GreaterOrEqual(t, start, 0, "no <id> element in body: %s", body)
	start += len("<id>")
	end := strings.Index(body[start:], "</id>")
	require.GreaterOrEqual(t, end, 0)
	return body[start : start+end]
}

func doXML(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGetClanInfo_EndToEnd(t *testing.T) {
	s := newTestServer(t)
	ticketB64 := consoleTicketB64(t, "leader")

	createBody := `<create_clan><ticket>` + ticketB64 + `</ticket><name>Knights</name><tag>KN</tag><description>d</description></create_clan>`
	createRec := doXML(t, s.createClan, "/clan_manager_update/sec/create_clan", createBody)
	require.Equal(t, http.StatusOK, createRec.Code)
	require.Contains(t, createRec.Body.String(), "<id>")
	id := idFromBody(t, createRec.Body.String())

	infoBody := `<get_clan_info><ticket>` + ticketB64 + `</ticket><id>` + id + `</id></get_clan_info>`
	infoRec := doXML(t, s.getClanInfo, "/clan_manager_view/func/get_clan_info", infoBody)
	require.Equal(t, http.StatusOK, infoRec.Code)
	assert.Equal(t, "x-ps3-clan", infoRec.Header().Get("Message-Type"))
	assert.Equal(t, "1.00", infoRec.Header().Get("Version"))
	assert.Contains(t, infoRec.Body.String(), `result="00"`)
	assert.Contains(t, infoRec.Body.String(), "<name>Knights</name>")
	assert.Contains(t, infoRec.Body.String(), "<tag>KN</tag>")
}

func TestGetClanInfo_UnknownIDMapsToNoSuchClan(t *testing.T) {
	s := newTestServer(t)
	ticketB64 := consoleTicketB64(t, "leader")

	body := `<get_clan_info><ticket>` + ticketB64 + `</ticket><id>999</id></get_clan_info>`
	rec := doXML(t, s.getClanInfo, "/clan_manager_view/func/get_clan_info", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `result="30"`)
}

func TestAuthenticate_BadLengthMapsToInvalidNpMessageFormat(t *testing.T) {
	s := newTestServer(t)
	tooShort := b64(buildTicket(t, 211, "PSN\x00", "leader"))

	body := `<get_clan_info><ticket>` + tooShort + `</ticket><id>1</id></get_clan_info>`
	rec := doXML(t, s.getClanInfo, "/clan_manager_view/func/get_clan_info", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `result="4B"`)
}

func TestAuthenticate_TooLongAlsoMapsToInvalidNpMessageFormat(t *testing.T) {
	s := newTestServer(t)
	tooLong := b64(buildTicket(t, 420, "PSN\x00", "leader"))

	body := `<get_clan_info><ticket>` + tooLong + `</ticket><id>1</id></get_clan_info>`
	rec := doXML(t, s.getClanInfo, "/clan_manager_view/func/get_clan_info", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `result="4B"`)
}

func TestParsePayload_MalformedXMLMapsToInvalidNpMessageFormat(t *testing.T) {
	s := newTestServer(t)
	rec := doXML(t, s.getClanInfo, "/clan_manager_view/func/get_clan_info", `not xml`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `result="4B"`)
}

func TestNoSuchClanService_UnrecognizedRoute(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/totally/unknown/path", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `result="2F"`)
}

func TestAdminAuth_RejectsMissingOrWrongToken(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodPost, "/admin/create_clan", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/create_clan", strings.NewReader(`{}`))
	req.Header.Set("X-Admin-Token", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAuth_AcceptsCorrectToken(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	// admin_create_clan resolves the target player from the players
	// collection, which is only populated once that player has hit a
	// game route (spec.md §4.6) — seed it the same way get_clan_list does.
	require.NoError(t, s.Service.Store.UpsertPlayer(t.Context(), identity.New("leader", "a1", "us")))

	payload := `{"username":"leader","clan_name":"Knights","clan_tag":"KN","clan_platform":"console"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/create_clan", strings.NewReader(payload))
	req.Header.Set("X-Admin-Token", "s3cr3t")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id"`)
}

func TestParseSearchFilter_StripsPlatformSuffix(t *testing.T) {
	f := parseSearchFilter("Knights[ps3]", "eq")
	assert.Equal(t, "Knights", f.NameOrTag)
	require.NotNil(t, f.Platform)
	assert.Equal(t, clanstore.OpEq, f.Op)

	f = parseSearchFilter("Knights[pc]", "lk")
	assert.Equal(t, "Knights", f.NameOrTag)
	require.NotNil(t, f.Platform)
	assert.Equal(t, clanstore.OpLk, f.Op)
}

func TestParseSearchFilter_EmptyQueryForcesOpAll(t *testing.T) {
	f := parseSearchFilter("   ", "eq")
	assert.Equal(t, clanstore.OpAll, f.Op)
}

func TestParseOp_UnrecognizedDefaultsToAll(t *testing.T) {
	assert.Equal(t, clanstore.OpAll, parseOp("bogus"))
	assert.Equal(t, clanstore.OpNe, parseOp("NE"))
	assert.Equal(t, clanstore.OpGtGe, parseOp("gt"))
	assert.Equal(t, clanstore.OpLtLe, parseOp("le"))
}
