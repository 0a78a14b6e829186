package domain

import "errors"

// BlocklistKind names one of the membership lists kept by support staff.
type BlocklistKind string

const (
	KindSuspiciousIP BlocklistKind = "suspicious_ip"
	KindStolenCard   BlocklistKind = "stolen_card"
)

var (
	ErrEntryExists   = errors.New("entry already listed")
	ErrEntryNotFound = errors.New("entry not found")
)

// BlocklistEntry is a single listed value (an IPv4 address or a card number).
type BlocklistEntry struct {
	ID    int64         `json:"id"`
	Kind  BlocklistKind `json:"kind"`
	Value string        `json:"value"`
}
