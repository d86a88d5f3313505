package entity

import (
	"encoding/binary"
	"encoding/hex"
)

// PartitionIDPrefix marks data store identifiers owned by webxdc instances.
var PartitionIDPrefix = [8]byte{'w', 'e', 'b', 'x', 'd', 'c', '_', '_'}

// PartitionID is a native data store identifier: prefix | account_be | message_be.
type PartitionID [16]byte

// NewPartitionID derives the data store identifier of an instance.
func NewPartitionID(accountID, messageID uint32) PartitionID {
	var id PartitionID
	copy(id[:8], PartitionIDPrefix[:])
	binary.BigEndian.PutUint32(id[8:12], accountID)
	binary.BigEndian.PutUint32(id[12:16], messageID)
	return id
}

// IsWebxdc reports whether the identifier carries the webxdc prefix.
func (p PartitionID) IsWebxdc() bool {
	return [8]byte(p[:8]) == PartitionIDPrefix
}

// AccountID decodes the account part of the identifier.
func (p PartitionID) AccountID() uint32 {
	return binary.BigEndian.Uint32(p[8:12])
}

// MessageID decodes the message part of the identifier.
func (p PartitionID) MessageID() uint32 {
	return binary.BigEndian.Uint32(p[12:16])
}

func (p PartitionID) String() string {
	return hex.EncodeToString(p[:])
}
