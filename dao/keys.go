package dao

import "padi_protocol/sdk"

const (
	kProposal byte = 0x10
	kReceipt  byte = 0x11
)

const proposalCount = "dao:count:proposal"

func packU64LEInline(x uint64, dst []byte) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(x >> (8 * i))
	}
}

func proposalKey(id uint64) string {
	var buf [9]byte
	buf[0] = kProposal
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

func receiptKey(id uint64, voter sdk.Address) string {
	var buf [9]byte
	buf[0] = kReceipt
	packU64LEInline(id, buf[1:])
	return string(buf[:]) + voter.String()
}
