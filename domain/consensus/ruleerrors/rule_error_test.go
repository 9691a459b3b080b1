package ruleerrors

import (
	"errors"
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	pkgerrors "github.com/pkg/errors"
)

func TestNewErrMissingParents(t *testing.T) {
	missing, err := externalapi.NewDomainHashFromString(
		"ff00000000000000000000000000000000000000000000000000000000000000")
	if err != nil {
		t.Fatalf("NewDomainHashFromString: %s", err)
	}
	outer := NewErrMissingParents([]*externalapi.DomainHash{missing})
	expectedOuterErr := "ErrMissingParents: missing the following parent hashes: " +
		"[ff00000000000000000000000000000000000000000000000000000000000000]"

	inner := &ErrMissingParents{}
	if !errors.As(outer, inner) {
		t.Fatal("TestNewErrMissingParents: Outer should contain ErrMissingParents in it")
	}
	if len(inner.MissingParentHashes) != 1 {
		t.Fatalf("TestNewErrMissingParents: Expected len(inner.MissingParentHashes) 1, found: %d",
			len(inner.MissingParentHashes))
	}
	if !inner.MissingParentHashes[0].Equal(missing) {
		t.Fatalf("TestNewErrMissingParents: Expected %s. found: %s", missing, inner.MissingParentHashes[0])
	}

	rule := &RuleError{}
	if !errors.As(outer, rule) {
		t.Fatal("TestNewErrMissingParents: Outer should contain RuleError in it")
	}
	if rule.message != "ErrMissingParents" {
		t.Fatalf("TestNewErrMissingParents: Expected message = 'ErrMissingParents', found: '%s'", rule.message)
	}
	if outer.Error() != expectedOuterErr {
		t.Fatalf("TestNewErrMissingParents: Expected %s. found: %s", expectedOuterErr, outer.Error())
	}
}

func TestWrappedRuleErrors(t *testing.T) {
	tests := []struct {
		name              string
		err               error
		target            RuleError
		finalityViolation bool
	}{
		{
			name:              "finality violation",
			err:               pkgerrors.Wrapf(ErrFinalityViolation, "block %d", 7),
			target:            ErrFinalityViolation,
			finalityViolation: true,
		},
		{
			name:              "duplicate block",
			err:               pkgerrors.Wrapf(ErrDuplicateBlock, "block %d", 7),
			target:            ErrDuplicateBlock,
			finalityViolation: false,
		},
		{
			name:              "invalid parents relation",
			err:               pkgerrors.WithStack(ErrInvalidParentsRelation),
			target:            ErrInvalidParentsRelation,
			finalityViolation: false,
		},
	}

	for _, test := range tests {
		if !errors.Is(test.err, test.target) {
			t.Errorf("%s: expected errors.Is to find %s in %s", test.name, test.target, test.err)
		}
		if IsFinalityViolation(test.err) != test.finalityViolation {
			t.Errorf("%s: expected IsFinalityViolation to be %t", test.name, test.finalityViolation)
		}
		rule := &RuleError{}
		if !errors.As(test.err, rule) {
			t.Errorf("%s: expected errors.As to find a RuleError", test.name)
		}
	}
}
