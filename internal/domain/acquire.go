package domain

import (
	"fmt"
	"math"
)

// AcquireKind tags how a recipe's output is best obtained.
type AcquireKind int

const (
	AcquireBuy AcquireKind = iota + 1
	AcquireCraft
	// AcquireGather is reserved; the resolver never assigns it.
	AcquireGather
)

func (k AcquireKind) String() string {
	switch k {
	case AcquireBuy:
		return "buy"
	case AcquireCraft:
		return "craft"
	case AcquireGather:
		return "gather"
	default:
		return fmt.Sprintf("acquire(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k AcquireKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *AcquireKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "buy":
		*k = AcquireBuy
	case "craft":
		*k = AcquireCraft
	case "gather":
		*k = AcquireGather
	default:
		return fmt.Errorf("%w: unknown acquire kind %q", ErrInvalidInput, string(b))
	}
	return nil
}

// AcquireAction is the cheapest way to obtain a recipe's output and its cost.
type AcquireAction struct {
	Kind AcquireKind `json:"kind"`
	Cost float64     `json:"cost"`
}

// ChooseAcquireAction picks the cheaper of crafting and buying. Ties go to Buy.
func ChooseAcquireAction(craftingCost, marketCost float64) AcquireAction {
	if craftingCost < marketCost {
		return AcquireAction{Kind: AcquireCraft, Cost: craftingCost}
	}
	return AcquireAction{Kind: AcquireBuy, Cost: marketCost}
}

// Resolved reports whether the action carries a finite cost.
func (a AcquireAction) Resolved() bool {
	return !math.IsInf(a.Cost, 0) && !math.IsNaN(a.Cost)
}
