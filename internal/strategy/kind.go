// Package strategy derives concrete order parameters (strikes, expirations,
// quantities) for the supported options strategies from a current price, a
// per-strategy configuration, and the set of tradable strikes.
package strategy

import "fmt"

// Kind identifies one of the supported options strategies.
type Kind string

const (
	// KindPutCreditSpread sells a put spread below the market.
	KindPutCreditSpread Kind = "pcs"
	// KindCollar pairs a protective put with a covered call around a stock position.
	KindCollar Kind = "cs"
	// KindCoveredCall sells calls against owned shares.
	KindCoveredCall Kind = "cc"
	// KindWheel alternates cash-secured puts and covered calls based on share count.
	KindWheel Kind = "ws"
	// KindLadderedCoveredCall spreads covered calls across consecutive weekly expirations.
	KindLadderedCoveredCall Kind = "lcc"
	// KindDoubleCalendar sells near-term and buys longer-term options at two strikes.
	KindDoubleCalendar Kind = "dc"
	// KindButterfly buys the wings and sells twice the body around the money.
	KindButterfly Kind = "bf"
	// KindMarriedPut buys shares together with a protective put.
	KindMarriedPut Kind = "mp"
	// KindLongStraddle buys an ATM call and put at the same strike.
	KindLongStraddle Kind = "ls"
	// KindIronButterfly sells an ATM straddle protected by bought wings.
	KindIronButterfly Kind = "ib"
	// KindShortStrangle sells an OTM put and call.
	KindShortStrangle Kind = "ss"
	// KindIronCondor sells an OTM put spread and an OTM call spread.
	KindIronCondor Kind = "ic"
)

var kindNames = map[Kind]string{
	KindPutCreditSpread:     "Put Credit Spread",
	KindCollar:              "Collar",
	KindCoveredCall:         "Covered Call",
	KindWheel:               "Wheel",
	KindLadderedCoveredCall: "Laddered Covered Call",
	KindDoubleCalendar:      "Double Calendar",
	KindButterfly:           "Butterfly",
	KindMarriedPut:          "Married Put",
	KindLongStraddle:        "Long Straddle",
	KindIronButterfly:       "Iron Butterfly",
	KindShortStrangle:       "Short Strangle",
	KindIronCondor:          "Iron Condor",
}

// Name returns the human-readable strategy name, or "Unknown" for
// unrecognized kinds.
func (k Kind) Name() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether k is one of the supported strategy kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind converts a config tag like "pcs" or "ic" into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown strategy kind %q", s)
	}
	return k, nil
}

// Kinds returns all supported strategy kinds.
func Kinds() []Kind {
	return []Kind{
		KindPutCreditSpread,
		KindCollar,
		KindCoveredCall,
		KindWheel,
		KindLadderedCoveredCall,
		KindDoubleCalendar,
		KindButterfly,
		KindMarriedPut,
		KindLongStraddle,
		KindIronButterfly,
		KindShortStrangle,
		KindIronCondor,
	}
}
