package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MsgAddressBlank     = "The value cannot be null, empty, or whitespaces"
	MsgAddressInvalid   = "The value is not a valid IPv4 address"
	MsgPortAbove        = "The value cannot be above 28000"
	MsgPortBelow        = "The value cannot be below 27000"
	MsgSliceEmpty       = "The value cannot contain nothing"
	MsgDiscordIDLength  = "The length of the value cannot be longer, or shorter than 18 digits"
	MsgTimestampDigits  = "The value cannot be lower, or higher than 10 digits."
	MsgSteamIDInvalid   = "The value is not a valid Steam32ID"
	minServerPort       = 27000
	maxServerPort       = 28000
	discordIDDigits     = 18
	unixTimestampDigits = 10
	centuryYears        = 100
)

var (
	ipv4Pattern    = regexp.MustCompile(`^(([0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])\.){3}([0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])$`)
	steamIDPattern = regexp.MustCompile(`^STEAM_[0-5]:[0-1]:\d+`)
)

// DateWithinCentury returns a rule accepting dates whose year lies within a
// hundred years of now's year, inclusive.
func DateWithinCentury(now time.Time) Rule[time.Time] {
	lo, hi := now.Year()-centuryYears, now.Year()+centuryYears
	return func(date time.Time) (bool, string) {
		switch {
		case date.Year() < lo:
			return false, fmt.Sprintf("The value cannot be before %d", lo)
		case date.Year() > hi:
			return false, fmt.Sprintf("The value cannot be after %d", hi)
		default:
			return true, ""
		}
	}
}

// IPv4Address accepts dotted-quad addresses without leading zeros.
func IPv4Address(address string) (bool, string) {
	if strings.TrimSpace(address) == "" {
		return false, MsgAddressBlank
	}
	if !ipv4Pattern.MatchString(address) {
		return false, MsgAddressInvalid
	}
	return true, ""
}

// ServerPort accepts ports in [27000, 28000].
func ServerPort(port uint16) (bool, string) {
	if port > maxServerPort {
		return false, MsgPortAbove
	}
	if port < minServerPort {
		return false, MsgPortBelow
	}
	return true, ""
}

// StringSliceNotEmpty rejects nil and zero-length slices.
func StringSliceNotEmpty(values []string) (bool, string) {
	if len(values) < 1 {
		return false, MsgSliceEmpty
	}
	return true, ""
}

// DiscordID accepts snowflakes with exactly 18 decimal digits.
func DiscordID(id uint64) (bool, string) {
	if len(strconv.FormatUint(id, 10)) != discordIDDigits {
		return false, MsgDiscordIDLength
	}
	return true, ""
}

// UnixTimestamp accepts values whose decimal form has exactly 10 characters.
// A leading minus sign counts as a character.
func UnixTimestamp(ts int32) (bool, string) {
	if len(strconv.FormatInt(int64(ts), 10)) != unixTimestampDigits {
		return false, MsgTimestampDigits
	}
	return true, ""
}

// SteamID accepts legacy STEAM_X:Y:Z identifiers. Only the prefix is anchored.
func SteamID(id string) (bool, string) {
	if !steamIDPattern.MatchString(id) {
		return false, MsgSteamIDInvalid
	}
	return true, ""
}
