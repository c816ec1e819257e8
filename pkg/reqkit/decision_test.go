package reqkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// discountFor produces a discount rate for senior users, absent otherwise.
var discountFor = NewDecision("senior-discount", func(u User) (float64, bool) {
	if u.Age >= 65 {
		return 0.2, true
	}
	return 0, false
})

// TestNewDecision_Validation tests the construction contracts.
func TestNewDecision_Validation(t *testing.T) {
	assert.PanicsWithValue(t, "reqkit: decision name cannot be empty", func() {
		NewDecision[User, int]("", func(User) (int, bool) { return 0, false })
	})
	assert.PanicsWithValue(t, "reqkit: decide function cannot be nil", func() {
		NewDecision[User, int]("d", nil)
	})
}

// TestDecision_PresentAndAbsent verifies the two outcomes.
func TestDecision_PresentAndAbsent(t *testing.T) {
	v, ok := discountFor.Decide(User{Age: 70})
	assert.True(t, ok)
	assert.Equal(t, 0.2, v)

	_, ok = discountFor.Decide(User{Age: 30})
	assert.False(t, ok)
}

// TestConstant verifies the always-present decision.
func TestConstant(t *testing.T) {
	d := Constant[User]("base-rate", 42)
	v, ok := d.Decide(User{})
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

// TestDecision_Filter verifies value filtering and absence passthrough.
func TestDecision_Filter(t *testing.T) {
	big := discountFor.Filter(func(r float64) bool { return r > 0.5 })

	_, ok := big.Decide(User{Age: 70}) // present 0.2, filtered out
	assert.False(t, ok)

	_, ok = big.Decide(User{Age: 30}) // absent stays absent
	assert.False(t, ok)

	small := discountFor.Filter(func(r float64) bool { return r > 0.1 })
	v, ok := small.Decide(User{Age: 70})
	assert.True(t, ok)
	assert.Equal(t, 0.2, v)
}

// TestDecision_OrElse verifies the fallback value makes the result
// always present.
func TestDecision_OrElse(t *testing.T) {
	d := discountFor.OrElse(0.05)

	v, ok := d.Decide(User{Age: 30})
	assert.True(t, ok)
	assert.Equal(t, 0.05, v)

	v, ok = d.Decide(User{Age: 70})
	assert.True(t, ok)
	assert.Equal(t, 0.2, v)
}

// TestMap verifies value transformation with absence passthrough.
func TestMap(t *testing.T) {
	percent := Map(discountFor, func(r float64) int { return int(r * 100) })

	v, ok := percent.Decide(User{Age: 70})
	assert.True(t, ok)
	assert.Equal(t, 20, v)

	_, ok = percent.Decide(User{Age: 30})
	assert.False(t, ok)
}

// TestThen verifies decision chaining against the same context.
func TestThen(t *testing.T) {
	capped := Then(discountFor, func(r float64) Decision[User, float64] {
		return NewDecision("cap", func(u User) (float64, bool) {
			if u.Country == "US" {
				return r / 2, true
			}
			return r, true
		})
	})

	v, ok := capped.Decide(User{Age: 70, Country: "US"})
	assert.True(t, ok)
	assert.Equal(t, 0.1, v)

	_, ok = capped.Decide(User{Age: 30})
	assert.False(t, ok)
}

// TestFirstMatch_StrictOrder verifies the first present member wins and
// later members are not evaluated.
func TestFirstMatch_StrictOrder(t *testing.T) {
	var order []string
	mk := func(name string, val int, present bool) Decision[User, int] {
		return NewDecision(name, func(User) (int, bool) {
			order = append(order, name)
			return val, present
		})
	}

	d := FirstMatch(mk("a", 1, false), mk("b", 2, true), mk("c", 3, true))
	v, ok := d.Decide(User{})
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"a", "b"}, order)
}

// TestFirstMatch_AllAbsent verifies composite absence.
func TestFirstMatch_AllAbsent(t *testing.T) {
	absent := NewDecision("absent", func(User) (int, bool) { return 0, false })
	_, ok := FirstMatch(absent, absent).Decide(User{})
	assert.False(t, ok)
}

// TestFirstMatch_NoMembers_Panics tests the contract.
func TestFirstMatch_NoMembers_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "reqkit: FirstMatch requires at least one member", func() {
		FirstMatch[User, int]()
	})
}

// TestGate verifies requirement-guarded values.
func TestGate(t *testing.T) {
	d := Gate(adult, "allowed")

	v, ok := d.Decide(User{Age: 30})
	assert.True(t, ok)
	assert.Equal(t, "allowed", v)

	_, ok = d.Decide(User{Age: 10})
	assert.False(t, ok)
}

// TestDecision_Name verifies composite names.
func TestDecision_Name(t *testing.T) {
	assert.Equal(t, "senior-discount", discountFor.Name())
	assert.Equal(t, "map(senior-discount)", Map(discountFor, func(r float64) float64 { return r }).Name())
	assert.Equal(t, "gate(adult)", Gate(adult, 0).Name())
}
