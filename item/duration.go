/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package item

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

/*
durationRegex matches the lexical form of a duration
*/
var durationRegex = regexp.MustCompile(
	`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

/*
Duration models a duration with a year-month part (in months) and a
day-time part (in seconds). Both parts carry the same sign.
*/
type Duration struct {
	months  int64   // Year-month part
	seconds float64 // Day-time part
}

/*
NewDurationFromParts creates a duration from a number of months and seconds.
*/
func NewDurationFromParts(months int64, seconds float64) Duration {
	return Duration{months, seconds}
}

/*
ParseDuration parses a duration in the form -PnYnMnDTnHnMnS.
*/
func ParseDuration(s string) (Duration, error) {
	m := durationRegex.FindStringSubmatch(s)

	if m == nil || s == "P" || s == "-P" || s[len(s)-1] == 'T' {
		return Duration{}, &Error{ErrInvalidLexicalForm, fmt.Sprintf("duration %q", s)}
	}

	invalid := &Error{ErrInvalidLexicalForm, fmt.Sprintf("duration %q out of range", s)}

	// scaled parses a component and multiplies it by the number of units
	// it represents

	scaled := func(v string, unit int64) (int64, bool) {
		if v == "" {
			return 0, true
		}
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil || i > math.MaxInt64/unit {
			return 0, false
		}
		return i * unit, true
	}

	var months, secs int64

	for _, c := range []struct {
		v     string
		unit  int64
		total *int64
	}{
		{m[2], 12, &months}, {m[3], 1, &months},
		{m[4], 86400, &secs}, {m[5], 3600, &secs}, {m[6], 60, &secs},
	} {
		v, ok := scaled(c.v, c.unit)
		if !ok || *c.total > math.MaxInt64-v {
			return Duration{}, invalid
		}
		*c.total += v
	}

	seconds := float64(secs)

	if m[7] != "" {
		f, err := strconv.ParseFloat(m[7], 64)
		if err != nil {
			return Duration{}, invalid
		}
		seconds += f
	}

	if seconds >= float64(math.MaxInt64) {
		return Duration{}, invalid
	}

	if m[1] == "-" {
		months, seconds = -months, -seconds
	}

	return Duration{months, seconds}, nil
}

/*
IsNegative returns true if this is a negative duration.
*/
func (d Duration) IsNegative() bool {
	return d.months < 0 || d.seconds < 0
}

/*
TotalMonths returns the year-month part in months.
*/
func (d Duration) TotalMonths() int64 {
	return d.months
}

/*
TotalSeconds returns the day-time part in seconds.
*/
func (d Duration) TotalSeconds() float64 {
	return d.seconds
}

/*
sign returns -1 for negative durations and 1 otherwise.
*/
func (d Duration) sign() int64 {
	if d.IsNegative() {
		return -1
	}
	return 1
}

/*
absSeconds returns the absolute day-time part.
*/
func (d Duration) absSeconds() float64 {
	return math.Abs(d.seconds)
}

/*
Years returns the normalized years component.
*/
func (d Duration) Years() int64 {
	return d.months / 12
}

/*
Months returns the normalized months component.
*/
func (d Duration) Months() int64 {
	return d.months % 12
}

/*
Days returns the normalized days component.
*/
func (d Duration) Days() int64 {
	return d.sign() * int64(d.absSeconds()/86400)
}

/*
Hours returns the normalized hours component.
*/
func (d Duration) Hours() int64 {
	return d.sign() * int64(math.Mod(d.absSeconds(), 86400)/3600)
}

/*
Minutes returns the normalized minutes component.
*/
func (d Duration) Minutes() int64 {
	return d.sign() * int64(math.Mod(d.absSeconds(), 3600)/60)
}

/*
Seconds returns the normalized seconds component including fractions.
*/
func (d Duration) Seconds() float64 {
	return float64(d.sign()) * math.Mod(d.absSeconds(), 60)
}

/*
String returns the canonical lexical form of this duration.
*/
func (d Duration) String() string {
	var buf bytes.Buffer

	if d.months == 0 && d.seconds == 0 {
		return "PT0S"
	}

	abs := func(i int64) int64 {
		if i < 0 {
			return -i
		}
		return i
	}

	if d.IsNegative() {
		buf.WriteString("-")
	}
	buf.WriteString("P")

	if y := abs(d.Years()); y != 0 {
		fmt.Fprintf(&buf, "%dY", y)
	}
	if m := abs(d.Months()); m != 0 {
		fmt.Fprintf(&buf, "%dM", m)
	}
	if dd := abs(d.Days()); dd != 0 {
		fmt.Fprintf(&buf, "%dD", dd)
	}

	h, m, s := abs(d.Hours()), abs(d.Minutes()), math.Abs(d.Seconds())

	if h != 0 || m != 0 || s != 0 {
		buf.WriteString("T")

		if h != 0 {
			fmt.Fprintf(&buf, "%dH", h)
		}
		if m != 0 {
			fmt.Fprintf(&buf, "%dM", m)
		}
		if s != 0 {
			fmt.Fprintf(&buf, "%sS", strconv.FormatFloat(s, 'f', -1, 64))
		}
	}

	return buf.String()
}
