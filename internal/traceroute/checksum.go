// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import "encoding/binary"

// Checksum computes the Internet checksum (RFC 1071) of b.
// A trailing odd byte is treated as the high byte of a zero-padded word.
// The result is meant to be written in network byte order.
func Checksum(b []byte) uint16 {
	var sum uint32
	even := len(b) &^ 1
	for i := 0; i < even; i += 2 {
		sum += uint32(binary.BigEndian.Uint16(b[i : i+2]))
	}
	if len(b) != even {
		sum += uint32(b[even]) << 8
	}
	for sum > 0xffff {
		sum = (sum >> 16) + (sum & 0xffff)
	}
	return ^uint16(sum)
}

// VerifyChecksum reports whether b, including its checksum field, folds to zero.
func VerifyChecksum(b []byte) bool {
	return Checksum(b) == 0
}
