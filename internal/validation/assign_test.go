package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	t.Run("accepted value is stored", func(t *testing.T) {
		cases := int32(10)
		require.NoError(t, Assign("cases", &cases, 12, IntNotNegative, Equal[int32]))
		assert.EqualValues(t, 12, cases)
	})

	t.Run("rejected value leaves prior value", func(t *testing.T) {
		cases := int32(10)
		err := Assign("cases", &cases, -1, IntNotNegative, Equal[int32])

		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "cases", verr.Field)
		assert.Equal(t, MsgNumberNegative, verr.Message)
		assert.Equal(t, "cases: The number cannot be lower than 0", err.Error())
		assert.EqualValues(t, 10, cases)
	})

	t.Run("same value still runs the rule", func(t *testing.T) {
		calls := 0
		rule := func(v int32) (bool, string) {
			calls++
			return IntNotNegative(v)
		}
		cases := int32(5)
		require.NoError(t, Assign("cases", &cases, 5, rule, Equal[int32]))
		assert.Equal(t, 1, calls)
		assert.EqualValues(t, 5, cases)
	})

	t.Run("nil rule accepts anything", func(t *testing.T) {
		continent := "Europe"
		require.NoError(t, Assign[string]("continent", &continent, "", nil, Equal[string]))
		assert.Empty(t, continent)
	})
}

func TestEqualPtr(t *testing.T) {
	a, b := 1.5, 1.5
	c := 2.0
	assert.True(t, EqualPtr[float64](nil, nil))
	assert.True(t, EqualPtr(&a, &b))
	assert.False(t, EqualPtr(&a, &c))
	assert.False(t, EqualPtr(&a, nil))
}
