// Package productid converts between a product's public identifier and its
// internal (owner, sequence) representation. Two strategies exist: a composite
// codec that embeds both numbers in the identifier, and an opaque codec that
// issues globally unique identifiers. Callers must depend only on the Codec
// contract, never on the concrete string shape.
package productid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"bee-market/internal/catalog"
)

// Codec assigns and parses public product identifiers.
type Codec interface {
	// Encode derives the public identifier for a product created by ownerID
	// with per-owner sequence code seq.
	Encode(ownerID, seq int64) (string, error)
	// Decode validates a public identifier. Composite deployments return the
	// embedded owner and sequence; opaque deployments return zero values.
	Decode(id string) (ownerID, seq int64, err error)
}

// Composite encodes identifiers as "<owner>-<sequence>", digits-hyphen-digits.
// Decode(Encode(a, b)) == (a, b) for all non-negative a, b.
type Composite struct{}

func (Composite) Encode(ownerID, seq int64) (string, error) {
	if ownerID < 0 || seq < 0 {
		return "", &catalog.FormatError{
			ID:     fmt.Sprintf("%d-%d", ownerID, seq),
			Reason: "owner and sequence must be non-negative",
		}
	}
	return strconv.FormatInt(ownerID, 10) + "-" + strconv.FormatInt(seq, 10), nil
}

func (Composite) Decode(id string) (int64, int64, error) {
	owner, seq, ok := strings.Cut(id, "-")
	if !ok {
		return 0, 0, &catalog.FormatError{ID: id, Reason: "expected <owner>-<sequence>"}
	}
	ownerID, err := parseCode(owner)
	if err != nil {
		return 0, 0, &catalog.FormatError{ID: id, Reason: "owner part is not a number"}
	}
	seqCode, err := parseCode(seq)
	if err != nil {
		return 0, 0, &catalog.FormatError{ID: id, Reason: "sequence part is not a number"}
	}
	return ownerID, seqCode, nil
}

// parseCode accepts plain decimal digits only; strconv alone would also let
// "+1" and "007"-style values round-trip inconsistently.
func parseCode(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, fmt.Errorf("leading zero")
	}
	return strconv.ParseInt(s, 10, 64)
}

// Opaque issues a fresh UUID per product and ignores the owner and sequence
// inputs. Decode only checks well-formedness.
type Opaque struct{}

func (Opaque) Encode(ownerID, seq int64) (string, error) {
	return uuid.NewString(), nil
}

func (Opaque) Decode(id string) (int64, int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, 0, &catalog.FormatError{ID: id, Reason: "not a UUID"}
	}
	return 0, 0, nil
}

// FromName resolves a configured strategy name to its codec.
func FromName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "composite":
		return Composite{}, nil
	case "opaque", "uuid":
		return Opaque{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy: %s", name)
	}
}
