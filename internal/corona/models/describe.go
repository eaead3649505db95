package models

import (
	"strconv"
	"strings"
)

// Describe renders the fixed multi-line country summary. Missing nullable
// values print as empty strings.
func (c *Corona) Describe() string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
	count := func(n int32) string { return strconv.FormatInt(int64(n), 10) }

	line("Country", c.country)
	b.WriteByte('\n')
	line("Tests", count(c.tests))
	line("Active", count(c.active))
	line("Critical", count(c.critical))
	b.WriteByte('\n')
	line("Total Cases", count(c.cases))
	line("Total Deaths", count(c.deaths))
	line("Recovered", count(c.recovered))
	line("Cases Today", count(c.todayCases))
	line("Deaths Today", count(c.todayDeaths))
	b.WriteByte('\n')
	line("Cases per one million", formatNullable(c.casesPerOneMillion))
	line("Deaths per one million", formatNullable(c.deathsPerOneMillion))
	line("Tests per one million", formatNullable(c.testsPerOneMillion))
	b.WriteByte('\n')
	b.WriteString("Updated: ")
	b.WriteString(strconv.FormatUint(c.updated, 10))
	return b.String()
}

// String implements fmt.Stringer.
func (c *Corona) String() string {
	return c.Describe()
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
