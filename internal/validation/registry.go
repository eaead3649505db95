package validation

import (
	"fmt"
	"sort"
	"time"
)

// AnyRule is a rule with its input type erased.
type AnyRule func(value any) (bool, string)

// Erase adapts a typed rule to AnyRule. A value of the wrong type is rejected.
func Erase[T any](rule Rule[T]) AnyRule {
	return func(value any) (bool, string) {
		v, ok := value.(T)
		if !ok {
			var zero T
			return false, fmt.Sprintf("expected %T, got %T", zero, value)
		}
		return rule(v)
	}
}

// Rule names accepted by Lookup and Check.
const (
	RuleStringNotEmpty            = "stringNotEmpty"
	RuleIntNotNegative            = "intNotNegative"
	RuleUlongNotNegative          = "ulongNotNegative"
	RuleNullableDoubleNotNegative = "nullableDoubleNotNegative"
	RuleDateWithinCentury         = "dateWithinCentury"
	RuleIPv4Address               = "ipv4Address"
	RuleServerPort                = "serverPort"
	RuleStringSliceNotEmpty       = "stringSliceNotEmpty"
	RuleDiscordID                 = "discordID"
	RuleUnixTimestamp             = "unixTimestamp"
	RuleSteamID                   = "steamID"
)

var registry = map[string]AnyRule{
	RuleStringNotEmpty:            Erase(Rule[string](StringNotEmpty)),
	RuleIntNotNegative:            Erase(Rule[int32](IntNotNegative)),
	RuleUlongNotNegative:          Erase(Rule[uint64](UlongNotNegative)),
	RuleNullableDoubleNotNegative: Erase(Rule[*float64](NullableDoubleNotNegative)),
	RuleDateWithinCentury: func(value any) (bool, string) {
		return Erase(DateWithinCentury(time.Now()))(value)
	},
	RuleIPv4Address:         Erase(Rule[string](IPv4Address)),
	RuleServerPort:          Erase(Rule[uint16](ServerPort)),
	RuleStringSliceNotEmpty: Erase(Rule[[]string](StringSliceNotEmpty)),
	RuleDiscordID:           Erase(Rule[uint64](DiscordID)),
	RuleUnixTimestamp:       Erase(Rule[int32](UnixTimestamp)),
	RuleSteamID:             Erase(Rule[string](SteamID)),
}

// Lookup returns the named rule.
func Lookup(name string) (AnyRule, bool) {
	r, ok := registry[name]
	return r, ok
}

// Names lists every registered rule, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check names a field, its value and the rule that guards it.
type Check struct {
	Field string
	Rule  string
	Value any
}

// Run applies checks in order and returns the first rejection as *Error.
// An unregistered rule name is a programming error and is reported as such.
func Run(checks ...Check) error {
	for _, c := range checks {
		rule, ok := Lookup(c.Rule)
		if !ok {
			return fmt.Errorf("validation: unknown rule %q for field %s", c.Rule, c.Field)
		}
		if accepted, msg := rule(c.Value); !accepted {
			return &Error{Field: c.Field, Message: msg}
		}
	}
	return nil
}
