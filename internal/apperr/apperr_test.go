package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{DuplicateKey("taken"), http.StatusBadRequest},
		{Referenced("in use"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("untagged"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, HTTPStatus(tc.err), "error: %v", tc.err)
	}
}

func TestMessageOfHidesInternals(t *testing.T) {
	require.Equal(t, "internal server error", MessageOf(errors.New("pq: connection refused")))
	require.Equal(t, "internal server error", MessageOf(Internal(errors.New("pq: connection refused"))))
	require.Equal(t, "sale not found", MessageOf(NotFound("sale not found")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("creating sale: %w", NotFound("customer not found"))
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, "customer not found", MessageOf(err))
	require.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := Wrap(KindConflict, "sale number already exists", cause)
	require.ErrorIs(t, err, cause)
}
