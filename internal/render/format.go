// Package render turns decoded ITCH records into text and JSON.
package render

import (
	"strconv"
)

const (
	nanosPerSecond = 1_000_000_000
	secondsPerHour = 3600
)

func appendPadded(dst []byte, v uint64, width int) []byte {
	var tmp [20]byte
	digits := strconv.AppendUint(tmp[:0], v, 10)
	for i := len(digits); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, digits...)
}

// AppendTimestamp formats nanoseconds since midnight as HH:MM:SS.nnnnnnnnn.
// Hours are not wrapped at 24.
func AppendTimestamp(dst []byte, ns uint64) []byte {
	secs := ns / nanosPerSecond
	dst = appendClock(dst, secs)
	dst = append(dst, '.')
	return appendPadded(dst, ns%nanosPerSecond, 9)
}

// FormatTimestamp is AppendTimestamp returning a string.
func FormatTimestamp(ns uint64) string {
	return string(AppendTimestamp(make([]byte, 0, 18), ns))
}

// AppendSeconds formats seconds since midnight as HH:MM:SS.
func AppendSeconds(dst []byte, secs uint32) []byte {
	return appendClock(dst, uint64(secs))
}

func appendClock(dst []byte, secs uint64) []byte {
	dst = appendPadded(dst, secs/secondsPerHour, 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, secs%secondsPerHour/60, 2)
	dst = append(dst, ':')
	return appendPadded(dst, secs%60, 2)
}

// AppendPrice4 formats a price with four implied decimals.
func AppendPrice4(dst []byte, v uint32) []byte {
	return appendFixed(dst, uint64(v), 10_000, 4)
}

// AppendPrice8 formats a price with eight implied decimals.
func AppendPrice8(dst []byte, v uint64) []byte {
	return appendFixed(dst, v, 100_000_000, 8)
}

// FormatPrice4 is AppendPrice4 returning a string.
func FormatPrice4(v uint32) string {
	return string(AppendPrice4(nil, v))
}

// FormatPrice8 is AppendPrice8 returning a string.
func FormatPrice8(v uint64) string {
	return string(AppendPrice8(nil, v))
}

func appendFixed(dst []byte, v, scale uint64, decimals int) []byte {
	dst = strconv.AppendUint(dst, v/scale, 10)
	dst = append(dst, '.')
	return appendPadded(dst, v%scale, decimals)
}
