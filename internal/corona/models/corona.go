// Package models defines the country snapshot returned by the statistics API.
//
// Checked attributes can only change through setters that run their
// validation rule; a rejected value never replaces the current one.
package models

import (
	"time"
)

// Corona is one country's COVID-19 figures at a point in time.
type Corona struct {
	country                string
	updated                uint64
	cases                  int32
	todayCases             int32
	deaths                 int32
	todayDeaths            int32
	recovered              int32
	active                 int32
	critical               int32
	casesPerOneMillion     *float64
	deathsPerOneMillion    *float64
	tests                  int32
	testsPerOneMillion     *float64
	population             *float64
	continent              string
	activePerOneMillion    *float64
	recoveredPerOneMillion *float64
	criticalPerOneMillion  *float64
	oneCasePerPeople       *float64
	oneDeathPerPeople      *float64
	oneTestPerPeople       *float64
}

// Snapshot carries every Corona attribute as plain data. It is the wire shape
// of the remote API and the input to New.
type Snapshot struct {
	Country                string   `json:"country"`
	Updated                uint64   `json:"updated"`
	Cases                  int32    `json:"cases"`
	TodayCases             int32    `json:"todayCases"`
	Deaths                 int32    `json:"deaths"`
	TodayDeaths            int32    `json:"todayDeaths"`
	Recovered              int32    `json:"recovered"`
	Active                 int32    `json:"active"`
	Critical               int32    `json:"critical"`
	CasesPerOneMillion     *float64 `json:"casesPerOneMillion"`
	DeathsPerOneMillion    *float64 `json:"deathsPerOneMillion"`
	Tests                  int32    `json:"tests"`
	TestsPerOneMillion     *float64 `json:"testsPerOneMillion"`
	Population             *float64 `json:"population"`
	Continent              string   `json:"continent"`
	ActivePerOneMillion    *float64 `json:"activePerOneMillion"`
	RecoveredPerOneMillion *float64 `json:"recoveredPerOneMillion"`
	CriticalPerOneMillion  *float64 `json:"criticalPerOneMillion"`
	OneCasePerPeople       *float64 `json:"oneCasePerPeople"`
	OneDeathPerPeople      *float64 `json:"oneDeathPerPeople"`
	OneTestPerPeople       *float64 `json:"oneTestPerPeople"`
}

func (s Snapshot) value(f Field) any {
	switch f {
	case FieldCountry:
		return s.Country
	case FieldUpdated:
		return s.Updated
	case FieldCases:
		return s.Cases
	case FieldTodayCases:
		return s.TodayCases
	case FieldDeaths:
		return s.Deaths
	case FieldTodayDeaths:
		return s.TodayDeaths
	case FieldRecovered:
		return s.Recovered
	case FieldActive:
		return s.Active
	case FieldCritical:
		return s.Critical
	case FieldCasesPerOneMillion:
		return s.CasesPerOneMillion
	case FieldDeathsPerOneMillion:
		return s.DeathsPerOneMillion
	case FieldTests:
		return s.Tests
	case FieldTestsPerOneMillion:
		return s.TestsPerOneMillion
	case FieldPopulation:
		return s.Population
	case FieldContinent:
		return s.Continent
	case FieldActivePerOneMillion:
		return s.ActivePerOneMillion
	case FieldRecoveredPerOneMillion:
		return s.RecoveredPerOneMillion
	case FieldCriticalPerOneMillion:
		return s.CriticalPerOneMillion
	case FieldOneCasePerPeople:
		return s.OneCasePerPeople
	case FieldOneDeathPerPeople:
		return s.OneDeathPerPeople
	case FieldOneTestPerPeople:
		return s.OneTestPerPeople
	}
	return nil
}

// New builds a Corona by assigning every field of s in declaration order.
// The first rejected field aborts construction; no partial value is returned.
func New(s Snapshot) (*Corona, error) {
	c := &Corona{}
	for _, f := range fieldOrder {
		if err := c.Set(f, s.value(f)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Snapshot copies the current attribute values out.
func (c *Corona) Snapshot() Snapshot {
	return Snapshot{
		Country:                c.country,
		Updated:                c.updated,
		Cases:                  c.cases,
		TodayCases:             c.todayCases,
		Deaths:                 c.deaths,
		TodayDeaths:            c.todayDeaths,
		Recovered:              c.recovered,
		Active:                 c.active,
		Critical:               c.critical,
		CasesPerOneMillion:     clone(c.casesPerOneMillion),
		DeathsPerOneMillion:    clone(c.deathsPerOneMillion),
		Tests:                  c.tests,
		TestsPerOneMillion:     clone(c.testsPerOneMillion),
		Population:             clone(c.population),
		Continent:              c.continent,
		ActivePerOneMillion:    clone(c.activePerOneMillion),
		RecoveredPerOneMillion: clone(c.recoveredPerOneMillion),
		CriticalPerOneMillion:  clone(c.criticalPerOneMillion),
		OneCasePerPeople:       clone(c.oneCasePerPeople),
		OneDeathPerPeople:      clone(c.oneDeathPerPeople),
		OneTestPerPeople:       clone(c.oneTestPerPeople),
	}
}

func (c *Corona) Country() string                  { return c.country }
func (c *Corona) Updated() uint64                  { return c.updated }
func (c *Corona) Cases() int32                     { return c.cases }
func (c *Corona) TodayCases() int32                { return c.todayCases }
func (c *Corona) Deaths() int32                    { return c.deaths }
func (c *Corona) TodayDeaths() int32               { return c.todayDeaths }
func (c *Corona) Recovered() int32                 { return c.recovered }
func (c *Corona) Active() int32                    { return c.active }
func (c *Corona) Critical() int32                  { return c.critical }
func (c *Corona) CasesPerOneMillion() *float64     { return clone(c.casesPerOneMillion) }
func (c *Corona) DeathsPerOneMillion() *float64    { return clone(c.deathsPerOneMillion) }
func (c *Corona) Tests() int32                     { return c.tests }
func (c *Corona) TestsPerOneMillion() *float64     { return clone(c.testsPerOneMillion) }
func (c *Corona) Population() *float64             { return clone(c.population) }
func (c *Corona) Continent() string                { return c.continent }
func (c *Corona) ActivePerOneMillion() *float64    { return clone(c.activePerOneMillion) }
func (c *Corona) RecoveredPerOneMillion() *float64 { return clone(c.recoveredPerOneMillion) }
func (c *Corona) CriticalPerOneMillion() *float64  { return clone(c.criticalPerOneMillion) }
func (c *Corona) OneCasePerPeople() *float64       { return clone(c.oneCasePerPeople) }
func (c *Corona) OneDeathPerPeople() *float64      { return clone(c.oneDeathPerPeople) }
func (c *Corona) OneTestPerPeople() *float64       { return clone(c.oneTestPerPeople) }

// UpdatedAt converts the epoch-millis update stamp to a time in UTC.
func (c *Corona) UpdatedAt() time.Time {
	return time.UnixMilli(int64(c.updated)).UTC()
}

func (c *Corona) SetCountry(v string) error               { return c.Set(FieldCountry, v) }
func (c *Corona) SetUpdated(v uint64) error               { return c.Set(FieldUpdated, v) }
func (c *Corona) SetCases(v int32) error                  { return c.Set(FieldCases, v) }
func (c *Corona) SetTodayCases(v int32) error             { return c.Set(FieldTodayCases, v) }
func (c *Corona) SetDeaths(v int32) error                 { return c.Set(FieldDeaths, v) }
func (c *Corona) SetTodayDeaths(v int32) error            { return c.Set(FieldTodayDeaths, v) }
func (c *Corona) SetRecovered(v int32) error              { return c.Set(FieldRecovered, v) }
func (c *Corona) SetActive(v int32) error                 { return c.Set(FieldActive, v) }
func (c *Corona) SetCritical(v int32) error               { return c.Set(FieldCritical, v) }
func (c *Corona) SetCasesPerOneMillion(v *float64) error  { return c.Set(FieldCasesPerOneMillion, v) }
func (c *Corona) SetDeathsPerOneMillion(v *float64) error { return c.Set(FieldDeathsPerOneMillion, v) }
func (c *Corona) SetTests(v int32) error                  { return c.Set(FieldTests, v) }
func (c *Corona) SetTestsPerOneMillion(v *float64) error  { return c.Set(FieldTestsPerOneMillion, v) }
func (c *Corona) SetPopulation(v *float64) error          { return c.Set(FieldPopulation, v) }

// Unchecked attributes accept any value.

func (c *Corona) SetContinent(v string)                { _ = c.Set(FieldContinent, v) }
func (c *Corona) SetActivePerOneMillion(v *float64)    { _ = c.Set(FieldActivePerOneMillion, v) }
func (c *Corona) SetRecoveredPerOneMillion(v *float64) { _ = c.Set(FieldRecoveredPerOneMillion, v) }
func (c *Corona) SetCriticalPerOneMillion(v *float64)  { _ = c.Set(FieldCriticalPerOneMillion, v) }
func (c *Corona) SetOneCasePerPeople(v *float64)       { _ = c.Set(FieldOneCasePerPeople, v) }
func (c *Corona) SetOneDeathPerPeople(v *float64)      { _ = c.Set(FieldOneDeathPerPeople, v) }
func (c *Corona) SetOneTestPerPeople(v *float64)       { _ = c.Set(FieldOneTestPerPeople, v) }
