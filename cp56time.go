package iec104

import (
	"fmt"
	"time"
)

/*
CP56Time2a is the 7-byte binary timestamp used throughout IEC 60870-5-104.

  byte 0-1: milliseconds within the minute (0-59999), little-endian
  byte 2:   bits 0-5 minute (0-59), bit 7 invalid
  byte 3:   bits 0-4 hour (0-23), bit 7 summer-time
  byte 4:   bits 0-4 day of month (1-31), bits 5-7 day of week (1=Monday)
  byte 5:   bits 0-3 month (1-12)
  byte 6:   bits 0-6 year since 2000 (0-99)
*/
type CP56Time2a struct {
	Milliseconds uint16
	Minute       uint8
	Hour         uint8
	Day          uint8
	DayOfWeek    uint8
	Month        uint8
	Year         uint8 // since 2000
	Invalid      bool
	SummerTime   bool
}

const cp56Len = 7

// ParseCP56Time2a decodes a 7-byte CP56Time2a from data[0:7].
func ParseCP56Time2a(data []byte) (CP56Time2a, error) {
	if len(data) < cp56Len {
		return CP56Time2a{}, fmt.Errorf("iec104: CP56Time2a too short: got %d bytes, need %d", len(data), cp56Len)
	}
	t := CP56Time2a{
		Milliseconds: parseLittleEndianUint16(data[0:2]),
		Minute:       data[2] & 0x3F,
		Invalid:      data[2]&0x80 != 0,
		Hour:         data[3] & 0x1F,
		SummerTime:   data[3]&0x80 != 0,
		Day:          data[4] & 0x1F,
		DayOfWeek:    (data[4] >> 5) & 0x07,
		Month:        data[5] & 0x0F,
		Year:         data[6] & 0x7F,
	}
	return t, nil
}

// Bytes encodes the timestamp back to its 7-byte wire form.
func (t CP56Time2a) Bytes() [cp56Len]byte {
	var out [cp56Len]byte
	ms := serializeLittleEndianUint16(t.Milliseconds)
	out[0], out[1] = ms[0], ms[1]
	out[2] = t.Minute & 0x3F
	if t.Invalid {
		out[2] |= 0x80
	}
	out[3] = t.Hour & 0x1F
	if t.SummerTime {
		out[3] |= 0x80
	}
	out[4] = (t.Day & 0x1F) | ((t.DayOfWeek & 0x07) << 5)
	out[5] = t.Month & 0x0F
	out[6] = t.Year & 0x7F
	return out
}

// BuildClockSyncFromTime converts a calendar time into a CP56Time2a ready
// for a clock-sync command. Go's weekday is 0=Sunday; the wire format wants
// 1=Monday..7=Sunday.
func BuildClockSyncFromTime(t time.Time) CP56Time2a {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	year := t.Year() - 2000
	if year < 0 {
		year = 0
	}
	return CP56Time2a{
		Milliseconds: uint16(t.Second())*1000 + uint16(t.Nanosecond()/1e6),
		Minute:       uint8(t.Minute()),
		Hour:         uint8(t.Hour()),
		Day:          uint8(t.Day()),
		DayOfWeek:    uint8(wd),
		Month:        uint8(t.Month()),
		Year:         uint8(year),
	}
}
