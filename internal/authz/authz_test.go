package authz

import (
	"testing"

	"github.com/google/uuid"
)

func TestAuthorize_Precedence(t *testing.T) {
	alice := &Principal{ID: uuid.New(), Username: "alice"}

	cases := []struct {
		name    string
		p       *Principal
		op      Operation
		target  Target
		wantErr error
	}{
		{"anonymous catalog read", nil, OpCatalogRead, Target{}, nil},
		{"authenticated catalog read", alice, OpCatalogRead, Target{}, nil},
		{"anonymous catalog write", nil, OpCatalogWrite, Target{}, ErrUnauthenticated},
		{"authenticated catalog write", alice, OpCatalogWrite, Target{}, nil},
		{"anonymous profile read", nil, OpProfileRead, Target{TargetUsername: "bob"}, ErrUnauthenticated},
		{"authenticated profile read", alice, OpProfileRead, Target{TargetUsername: "bob"}, nil},
		{"anonymous follow", nil, OpFollowToggle, Target{TargetUsername: "bob"}, ErrUnauthenticated},
		{"follow someone else", alice, OpFollowToggle, Target{TargetUsername: "bob"}, nil},
		{"follow self", alice, OpFollowToggle, Target{TargetUsername: "alice"}, ErrSelfRelation},
		{"anonymous like", nil, OpEngage, Target{}, ErrUnauthenticated},
		{"authenticated like", alice, OpEngage, Target{}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Authorize(tc.p, tc.op, tc.target)
			if got != tc.wantErr {
				t.Fatalf("Authorize() = %v, want %v", got, tc.wantErr)
			}
		})
	}
}

func TestAuthorize_UnknownOperationIsForbidden(t *testing.T) {
	p := &Principal{ID: uuid.New(), Username: "alice"}
	if err := Authorize(p, Operation(99), Target{}); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for unknown op, got %v", err)
	}
}

func TestAuthorize_SelfCheckBeatsAuthentication(t *testing.T) {
	// An anonymous self-follow is still reported as unauthenticated first:
	// identity must be established before target comparison means anything.
	if err := Authorize(nil, OpFollowToggle, Target{TargetUsername: ""}); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
