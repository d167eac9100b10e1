package clanerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Hex(t *testing.T) {
	assert.Equal(t, "00", Success.Hex())
	assert.Equal(t, "2F", NoSuchClanService.Hex())
	assert.Equal(t, "4B", InvalidNpMessageFormat.Hex())
}

func TestCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, 200, Success.HTTPStatus())
	assert.Equal(t, 404, NoSuchClan.HTTPStatus())
	assert.Equal(t, 409, DuplicatedClanTag.HTTPStatus())
	assert.Equal(t, 500, Code(0xFF).HTTPStatus())
}

func TestConvenienceConstructors(t *testing.T) {
	assert.Equal(t, NoSuchClan, ErrNoSuchClan(1).Code)
	assert.Equal(t, NoSuchClanMember, ErrNoSuchClanMember("x").Code)
	assert.Equal(t, PermissionDenied, ErrForbidden("x").Code)
	assert.Equal(t, InternalServerError, ErrInternal(assertErr{}).Code)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
