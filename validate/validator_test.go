package validate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaygroundValidatorCheck(t *testing.T) {
	v := NewPlaygroundValidator()

	tests := []struct {
		name  string
		check Check
		value any
		args  []any
		want  bool
	}{
		{name: "is set string", check: IsSet, value: "x", want: true},
		{name: "is set empty string", check: IsSet, value: "", want: true},
		{name: "is set nil", check: IsSet, value: nil, want: false},
		{name: "is set nil slice", check: IsSet, value: []string(nil), want: false},
		{name: "is set nil map", check: IsSet, value: map[string]any(nil), want: false},

		{name: "float string", check: IsFloat, value: "1.5", want: true},
		{name: "float negative", check: IsFloat, value: "-2", want: true},
		{name: "float from json number", check: IsFloat, value: float64(3), want: true},
		{name: "float rejects text", check: IsFloat, value: "abc", want: false},
		{name: "float exponent", check: IsFloat, value: "1e5", want: true},
		{name: "float without integer part", check: IsFloat, value: ".5", want: true},
		{name: "float without fraction digits", check: IsFloat, value: "1.", want: true},
		{name: "float rejects infinity", check: IsFloat, value: "Inf", want: false},
		{name: "float rejects nan", check: IsFloat, value: "NaN", want: false},
		{name: "float rejects overflow", check: IsFloat, value: "1e400", want: false},
		{name: "float rejects hex", check: IsFloat, value: "0x1p3", want: false},
		{name: "float rejects empty", check: IsFloat, value: "", want: false},

		{name: "int string", check: IsInt, value: "42", want: true},
		{name: "int rejects plus sign", check: IsInt, value: "+7", want: false},
		{name: "int rejects leading zeros", check: IsInt, value: "007", want: false},
		{name: "int zero", check: IsInt, value: "0", want: true},
		{name: "int rejects lone minus", check: IsInt, value: "-", want: false},
		{name: "int beyond int64", check: IsInt, value: "99999999999999999999", want: true},
		{name: "int negative", check: IsInt, value: "-3", want: true},
		{name: "int rejects fraction", check: IsInt, value: "4.2", want: false},
		{name: "int rejects text", check: IsInt, value: "foo", want: false},
		{name: "int rejects empty", check: IsInt, value: "", want: false},

		{name: "uuid valid", check: IsUUID, value: "550e8400-e29b-41d4-a716-446655440000", want: true},
		{name: "uuid invalid", check: IsUUID, value: "not-a-uuid", want: false},

		{name: "date valid", check: IsDate, value: "2024-01-15", want: true},
		{name: "date time valid", check: IsDate, value: "2024-01-15T10:20:30Z", want: true},
		{name: "date invalid", check: IsDate, value: "yesterday-ish", want: false},

		{name: "matches", check: Matches, value: "abc", args: []any{"^a"}, want: true},
		{name: "matches fails", check: Matches, value: "xbc", args: []any{"^a"}, want: false},
		{name: "matches bad pattern", check: Matches, value: "abc", args: []any{"("}, want: false},
		{name: "matches without pattern", check: Matches, value: "abc", want: false},

		{name: "length min ok", check: IsLength, value: "abc", args: []any{2}, want: true},
		{name: "length min fails", check: IsLength, value: "a", args: []any{2}, want: false},
		{name: "length range ok", check: IsLength, value: "ab", args: []any{0, 2}, want: true},
		{name: "length range fails", check: IsLength, value: "abc", args: []any{0, 2}, want: false},
		{name: "length counts runes", check: IsLength, value: "äöü", args: []any{0, 3}, want: true},

		{name: "greater than", check: IsGreaterThan, value: "5", args: []any{4.0}, want: true},
		{name: "greater than equal", check: IsGreaterThan, value: "4", args: []any{4.0}, want: false},
		{name: "greater than text", check: IsGreaterThan, value: "x", args: []any{4.0}, want: false},
		{name: "less than", check: IsLessThan, value: "3", args: []any{4.0}, want: true},
		{name: "less than equal", check: IsLessThan, value: "4", args: []any{4.0}, want: false},

		{name: "absent value fails checks", check: IsInt, value: nil, want: false},
		{name: "slice all pass", check: IsInt, value: []string{"1", "2"}, want: true},
		{name: "slice one fails", check: IsInt, value: []string{"1", "x"}, want: false},
		{name: "empty slice fails", check: IsInt, value: []string{}, want: false},
		{name: "unknown check", check: Check(99), value: "x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check(tt.check, tt.value, tt.args...))
		})
	}
}

func TestCheckString(t *testing.T) {
	assert.Equal(t, "isSet", IsSet.String())
	assert.Equal(t, "isLessThan", IsLessThan.String())
	assert.Equal(t, "check(42)", Check(42).String())
}

func TestPlaygroundValidatorConcurrent(t *testing.T) {
	v := NewPlaygroundValidator()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pattern := "^[a-z]+$"
			if i%2 == 0 {
				pattern = "^[0-9]+$"
			}
			v.Check(Matches, "abc", pattern)
			v.Check(IsInt, "12")
		}(i)
	}
	wg.Wait()

	assert.True(t, v.Check(Matches, "abc", "^[a-z]+$"))
	assert.False(t, v.Check(Matches, "abc", "^[0-9]+$"))
}

func TestRegexpCache(t *testing.T) {
	var c regexpCache

	first, err := c.compile(`^\d+$`)
	assert.NoError(t, err)

	second, err := c.compile(`^\d+$`)
	assert.NoError(t, err)
	assert.Same(t, first, second)

	_, err = c.compile(`(`)
	assert.Error(t, err)
}
