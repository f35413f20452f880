// Copyright 2015 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package json

import "time"

// Temporal is the packed 8-byte value physically carried by the DATE,
// TIME, DATETIME and TIMESTAMP kinds in both the DOM and the binary form
// (spec.md §3, §4.3: "time ::= uint64"). It is a plain bitfield, not a
// full calendar type; calendar math is delegated to time.Time at the
// boundary (PackGoTime/Unpack), matching spec.md §1's carve-out of
// "temporal packing utilities" as an external collaborator beyond what
// this core needs to store and compare the packed value.
type Temporal uint64

const (
	yearOffset, yearWidth               = 50, 14
	monthOffset, monthWidth             = 46, 4
	dayOffset, dayWidth                 = 41, 5
	hourOffset, hourWidth               = 36, 5
	minuteOffset, minuteWidth           = 30, 6
	secondOffset, secondWidth           = 24, 6
	microsecondOffset, microsecondWidth = 4, 20
)

func bitMask(width uint) uint64 { return (uint64(1) << width) - 1 }

// PackDateTime packs a calendar date/time into a Temporal value.
func PackDateTime(year, month, day, hour, minute, second, microsecond int) Temporal {
	var v uint64
	v |= (uint64(microsecond) & bitMask(microsecondWidth)) << microsecondOffset
	v |= (uint64(second) & bitMask(secondWidth)) << secondOffset
	v |= (uint64(minute) & bitMask(minuteWidth)) << minuteOffset
	v |= (uint64(hour) & bitMask(hourWidth)) << hourOffset
	v |= (uint64(day) & bitMask(dayWidth)) << dayOffset
	v |= (uint64(month) & bitMask(monthWidth)) << monthOffset
	v |= (uint64(year) & bitMask(yearWidth)) << yearOffset
	return Temporal(v)
}

// PackGoTime packs a standard library time.Time into a Temporal value,
// truncating to microsecond precision.
func PackGoTime(t time.Time) Temporal {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()
	microsecond := t.Nanosecond() / 1000
	return PackDateTime(year, int(month), day, hour, minute, second, microsecond)
}

// Unpack decomposes a Temporal value back into its calendar fields.
func (t Temporal) Unpack() (year, month, day, hour, minute, second, microsecond int) {
	v := uint64(t)
	year = int((v >> yearOffset) & bitMask(yearWidth))
	month = int((v >> monthOffset) & bitMask(monthWidth))
	day = int((v >> dayOffset) & bitMask(dayWidth))
	hour = int((v >> hourOffset) & bitMask(hourWidth))
	minute = int((v >> minuteOffset) & bitMask(minuteWidth))
	second = int((v >> secondOffset) & bitMask(secondWidth))
	microsecond = int((v >> microsecondOffset) & bitMask(microsecondWidth))
	return
}

// GoTime renders the packed value as a UTC time.Time, for callers that
// want standard library calendar handling; an all-zero date yields the
// zero time.Time.
func (t Temporal) GoTime() time.Time {
	year, month, day, hour, minute, second, microsecond := t.Unpack()
	if year == 0 && month == 0 && day == 0 {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, microsecond*1000, time.UTC)
}

// String formats the temporal the way MySQL prints DATE/DATETIME/TIMESTAMP
// literals embedded in JSON text (quoted by the caller).
func (t Temporal) String(kind Kind) string {
	year, month, day, hour, minute, second, microsecond := t.Unpack()
	switch kind {
	case KindDate:
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	default:
		gt := time.Date(year, time.Month(month), day, hour, minute, second, microsecond*1000, time.UTC)
		return gt.Format("2006-01-02 15:04:05.000000")
	}
}
