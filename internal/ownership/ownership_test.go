package ownership

import (
	"strings"
	"testing"

	"vidtube/internal/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stringer string

func (s stringer) String() string { return string(s) }

type nilStringer struct{ v *string }

func (n *nilStringer) String() string { return *n.v }

func TestAuthorize(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	aStr := a.String()
	var nilUUID *uuid.UUID
	var nilStr *string
	var nilS *nilStringer

	cases := []struct {
		name  string
		actor any
		owner any
		want  bool
	}{
		{"same uuid", a, a, true},
		{"uuid vs string", a, aStr, true},
		{"uuid vs upper-case string", a, strings.ToUpper(aStr), true},
		{"pointer forms", &a, &aStr, true},
		{"stringer", stringer(aStr), a, true},
		{"different ids", a, b, false},
		{"absent actor", nil, a, false},
		{"absent owner", a, nil, false},
		{"both absent", nil, nil, false},
		{"nil uuid", uuid.Nil, uuid.Nil, false},
		{"nil uuid pointer", nilUUID, a, false},
		{"nil string pointer", nilStr, a, false},
		{"nil stringer", nilS, a, false},
		{"empty string", "", "", false},
		{"malformed", "not-an-id", "not-an-id", false},
		{"unsupported type", 42, 42, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tc.want, Authorize(tc.actor, tc.owner))
			})
		})
	}
}

func TestRequire(t *testing.T) {
	a := uuid.New()

	assert.NoError(t, Require(a, a.String(), "video"))

	err := Require(uuid.New(), a, "video")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	assert.Contains(t, err.Error(), "video")

	assert.True(t, apperr.IsKind(Require(nil, a, "tweet"), apperr.KindForbidden))
}
