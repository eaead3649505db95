package models

import (
	"errors"
	"fmt"
	"reflect"

	"catalog/internal/validation"
)

// Field names a Corona attribute. The value matches the remote JSON key.
type Field string

const (
	FieldCountry                Field = "country"
	FieldUpdated                Field = "updated"
	FieldCases                  Field = "cases"
	FieldTodayCases             Field = "todayCases"
	FieldDeaths                 Field = "deaths"
	FieldTodayDeaths            Field = "todayDeaths"
	FieldRecovered              Field = "recovered"
	FieldActive                 Field = "active"
	FieldCritical               Field = "critical"
	FieldCasesPerOneMillion     Field = "casesPerOneMillion"
	FieldDeathsPerOneMillion    Field = "deathsPerOneMillion"
	FieldTests                  Field = "tests"
	FieldTestsPerOneMillion     Field = "testsPerOneMillion"
	FieldPopulation             Field = "population"
	FieldContinent              Field = "continent"
	FieldActivePerOneMillion    Field = "activePerOneMillion"
	FieldRecoveredPerOneMillion Field = "recoveredPerOneMillion"
	FieldCriticalPerOneMillion  Field = "criticalPerOneMillion"
	FieldOneCasePerPeople       Field = "oneCasePerPeople"
	FieldOneDeathPerPeople      Field = "oneDeathPerPeople"
	FieldOneTestPerPeople       Field = "oneTestPerPeople"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldType    = errors.New("wrong value type for field")
)

// fieldOrder is the order New assigns fields in.
var fieldOrder = []Field{
	FieldCountry,
	FieldUpdated,
	FieldCases,
	FieldTodayCases,
	FieldDeaths,
	FieldTodayDeaths,
	FieldRecovered,
	FieldActive,
	FieldCritical,
	FieldCasesPerOneMillion,
	FieldDeathsPerOneMillion,
	FieldTests,
	FieldTestsPerOneMillion,
	FieldPopulation,
	FieldContinent,
	FieldActivePerOneMillion,
	FieldRecoveredPerOneMillion,
	FieldCriticalPerOneMillion,
	FieldOneCasePerPeople,
	FieldOneDeathPerPeople,
	FieldOneTestPerPeople,
}

// accessor reads and writes one field through its rule.
type accessor struct {
	checked bool
	get     func(c *Corona) any
	set     func(c *Corona, value any) error
}

var fieldTable = map[Field]accessor{
	FieldCountry:                scalar(FieldCountry, func(c *Corona) *string { return &c.country }, validation.StringNotEmpty),
	FieldUpdated:                scalar(FieldUpdated, func(c *Corona) *uint64 { return &c.updated }, validation.UlongNotNegative),
	FieldCases:                  scalar(FieldCases, func(c *Corona) *int32 { return &c.cases }, validation.IntNotNegative),
	FieldTodayCases:             scalar(FieldTodayCases, func(c *Corona) *int32 { return &c.todayCases }, validation.IntNotNegative),
	FieldDeaths:                 scalar(FieldDeaths, func(c *Corona) *int32 { return &c.deaths }, validation.IntNotNegative),
	FieldTodayDeaths:            scalar(FieldTodayDeaths, func(c *Corona) *int32 { return &c.todayDeaths }, validation.IntNotNegative),
	FieldRecovered:              scalar(FieldRecovered, func(c *Corona) *int32 { return &c.recovered }, validation.IntNotNegative),
	FieldActive:                 scalar(FieldActive, func(c *Corona) *int32 { return &c.active }, validation.IntNotNegative),
	FieldCritical:               scalar(FieldCritical, func(c *Corona) *int32 { return &c.critical }, validation.IntNotNegative),
	FieldCasesPerOneMillion:     nullable(FieldCasesPerOneMillion, func(c *Corona) **float64 { return &c.casesPerOneMillion }, validation.NullableDoubleNotNegative),
	FieldDeathsPerOneMillion:    nullable(FieldDeathsPerOneMillion, func(c *Corona) **float64 { return &c.deathsPerOneMillion }, validation.NullableDoubleNotNegative),
	FieldTests:                  scalar(FieldTests, func(c *Corona) *int32 { return &c.tests }, validation.IntNotNegative),
	FieldTestsPerOneMillion:     nullable(FieldTestsPerOneMillion, func(c *Corona) **float64 { return &c.testsPerOneMillion }, validation.NullableDoubleNotNegative),
	FieldPopulation:             nullable(FieldPopulation, func(c *Corona) **float64 { return &c.population }, validation.NullableDoubleNotNegative),
	FieldContinent:              scalar(FieldContinent, func(c *Corona) *string { return &c.continent }, nil),
	FieldActivePerOneMillion:    nullable(FieldActivePerOneMillion, func(c *Corona) **float64 { return &c.activePerOneMillion }, nil),
	FieldRecoveredPerOneMillion: nullable(FieldRecoveredPerOneMillion, func(c *Corona) **float64 { return &c.recoveredPerOneMillion }, nil),
	FieldCriticalPerOneMillion:  nullable(FieldCriticalPerOneMillion, func(c *Corona) **float64 { return &c.criticalPerOneMillion }, nil),
	FieldOneCasePerPeople:       nullable(FieldOneCasePerPeople, func(c *Corona) **float64 { return &c.oneCasePerPeople }, nil),
	FieldOneDeathPerPeople:      nullable(FieldOneDeathPerPeople, func(c *Corona) **float64 { return &c.oneDeathPerPeople }, nil),
	FieldOneTestPerPeople:       nullable(FieldOneTestPerPeople, func(c *Corona) **float64 { return &c.oneTestPerPeople }, nil),
}

func scalar[T comparable](f Field, slot func(*Corona) *T, rule validation.Rule[T]) accessor {
	return accessor{
		checked: rule != nil,
		get:     func(c *Corona) any { return *slot(c) },
		set: func(c *Corona, value any) error {
			v, ok := coerce[T](value)
			if !ok {
				return fmt.Errorf("%w %s: %T", ErrFieldType, f, value)
			}
			return validation.Assign(string(f), slot(c), v, rule, validation.Equal[T])
		},
	}
}

// coerce converts value to T. Any integer kind converts to an integer T when
// it fits; a value that does not fit is a type mismatch, not a rule failure.
func coerce[T any](value any) (T, bool) {
	var out T
	if v, ok := value.(T); ok {
		return v, true
	}
	if value == nil {
		return out, false
	}
	src := reflect.ValueOf(value)
	dst := reflect.ValueOf(&out).Elem()
	switch {
	case isSigned(src.Kind()) && isSigned(dst.Kind()):
		if dst.OverflowInt(src.Int()) {
			return out, false
		}
		dst.SetInt(src.Int())
	case isSigned(src.Kind()) && isUnsigned(dst.Kind()):
		if src.Int() < 0 || dst.OverflowUint(uint64(src.Int())) {
			return out, false
		}
		dst.SetUint(uint64(src.Int()))
	case isUnsigned(src.Kind()) && isSigned(dst.Kind()):
		if src.Uint() > 1<<63-1 || dst.OverflowInt(int64(src.Uint())) {
			return out, false
		}
		dst.SetInt(int64(src.Uint()))
	case isUnsigned(src.Kind()) && isUnsigned(dst.Kind()):
		if dst.OverflowUint(src.Uint()) {
			return out, false
		}
		dst.SetUint(src.Uint())
	default:
		return out, false
	}
	return out, true
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

// nullable stores a private copy so callers cannot mutate a field through the
// pointer they passed in or got back. An untyped nil clears the field and a
// bare float64 is stored by value.
func nullable(f Field, slot func(*Corona) **float64, rule validation.Rule[*float64]) accessor {
	return accessor{
		checked: rule != nil,
		get:     func(c *Corona) any { return clone(*slot(c)) },
		set: func(c *Corona, value any) error {
			var v *float64
			switch x := value.(type) {
			case nil:
			case *float64:
				v = x
			case float64:
				v = &x
			default:
				return fmt.Errorf("%w %s: %T", ErrFieldType, f, value)
			}
			return validation.Assign(string(f), slot(c), clone(v), rule, validation.EqualPtr[float64])
		},
	}
}

func clone(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Fields lists every attribute in assignment order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// IsChecked reports whether assignments to f run a validation rule.
func IsChecked(f Field) bool {
	return fieldTable[f].checked
}

// Set assigns value to f through the field's rule. A rejected value is
// reported as *validation.Error and leaves the field unchanged.
func (c *Corona) Set(f Field, value any) error {
	acc, ok := fieldTable[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return acc.set(c, value)
}

// Get returns the current value of f. Nullable fields come back as *float64.
func (c *Corona) Get(f Field) (any, error) {
	acc, ok := fieldTable[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return acc.get(c), nil
}
