package domain

import (
	"fmt"
	"strings"
)

// AssetClass tags a trade with the market it belongs to. It is fixed at creation.
type AssetClass string

const (
	Forex  AssetClass = "Forex"
	Crypto AssetClass = "Crypto"
)

// AssetClasses lists every supported asset class in display order.
var AssetClasses = []AssetClass{Forex, Crypto}

// Valid reports whether a is one of the known asset classes.
func (a AssetClass) Valid() bool {
	return a == Forex || a == Crypto
}

// ParseAssetClass converts user or config input ("forex", "CRYPTO", ...) to an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forex", "fx":
		return Forex, nil
	case "crypto":
		return Crypto, nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// ChangeKind describes which lifecycle operation produced a store change.
type ChangeKind string

const (
	ChangeActiveAdded   ChangeKind = "ACTIVE_ADDED"
	ChangeActiveUpdated ChangeKind = "ACTIVE_UPDATED"
	ChangeActiveDeleted ChangeKind = "ACTIVE_DELETED"
	ChangeTradeClosed   ChangeKind = "TRADE_CLOSED"
	ChangeClosedUpdated ChangeKind = "CLOSED_UPDATED"
	ChangeClosedDeleted ChangeKind = "CLOSED_DELETED"
	ChangeReset         ChangeKind = "RESET"
	ChangePulled        ChangeKind = "PULLED" // Local state replaced from the remote replica
	ChangeLoaded        ChangeKind = "LOADED" // Initial state restored from the repository
)

// SyncState is the coarse status of background persistence and replication.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncPending SyncState = "pending"
	SyncOK      SyncState = "synced"
	SyncFailed  SyncState = "failed"
)
