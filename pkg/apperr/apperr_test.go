package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", InvalidState("order %s is not in progress", "o-1"))

	assert.True(t, Is(err, KindInvalidState))
	assert.False(t, Is(err, KindNotFound))
	assert.Equal(t, "order o-1 is not in progress", Message(err))
}

func TestPersistence(t *testing.T) {
	assert.NoError(t, Persistence(nil, "ignored"))

	cause := errors.New("disk full")
	err := Persistence(cause, "failed to insert bill")
	assert.True(t, Is(err, KindPersistence))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal error", Message(err))

	// an already classified error keeps its kind
	nf := NotFound("product %q not found", "pen")
	assert.Same(t, nf, Persistence(nf, "lookup"))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            NotFound("x"),
		http.StatusUnauthorized:        AuthFailure("x"),
		http.StatusConflict:            InvalidState("x"),
		http.StatusBadRequest:          InvalidArgument("x"),
		http.StatusInternalServerError: errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
	assert.Equal(t, http.StatusConflict, HTTPStatus(Duplicate("x")))
}

func TestGRPCStatus(t *testing.T) {
	st, ok := status.FromError(GRPCStatus(InvalidState("cart is empty")))
	require.True(t, ok)
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Equal(t, "cart is empty", st.Message())

	st, _ = status.FromError(GRPCStatus(errors.New("db down")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())

	assert.NoError(t, GRPCStatus(nil))
}

func TestFromGRPCRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindNotFound, KindAuthFailure, KindInvalidState, KindDuplicate, KindInvalidArgument} {
		err := FromGRPC(GRPCStatus(New(kind, "msg")))
		assert.Equal(t, kind, KindOf(err), kind.String())
		assert.Equal(t, "msg", Message(err))
	}
	assert.True(t, Is(FromGRPC(status.Error(codes.Unavailable, "down")), KindPersistence))
}
