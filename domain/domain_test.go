package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 7, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
		{9, 5, 100},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_of_%d", tc.completed, tc.total), func(t *testing.T) {
			got := CompletionRate(tc.completed, tc.total)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestEnumsRejectUnknownValues(t *testing.T) {
	assert.True(t, CategoryHomeLife.Valid())
	assert.False(t, Category("system").Valid())
	assert.False(t, Category("").Valid())

	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("done").Valid())

	assert.True(t, LevelMedium.Valid())
	assert.False(t, Level("urgent").Valid())
}

func TestCredentialPolicy(t *testing.T) {
	assert.True(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("ab.example.com"))

	assert.True(t, ValidPassword("12345678"))
	assert.False(t, ValidPassword("1234567"))
	assert.True(t, ValidPassword("パスワード確認用"), "length is counted in characters")
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", ErrTaskNotFound)
	assert.True(t, IsDomainError(wrapped, ErrCodeNotFound))
	assert.False(t, IsDomainError(wrapped, ErrCodeConflict))
	assert.Equal(t, ErrCodeNotFound, CodeOf(wrapped))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("boom")))

	cause := errors.New("driver failure")
	err := WrapError(ErrCodeInternal, "query failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "query failed: driver failure", err.Error())
}

func TestEnsureCollections(t *testing.T) {
	task := &Task{}
	task.EnsureCollections()
	assert.NotNil(t, task.Causes)
	assert.NotNil(t, task.Actions)
	assert.NotNil(t, task.Assignees)
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-03-10", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-13-01", false},
		{"2025-3-10", false},
		{"2025-03-10T00:00:00Z", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			d, ok := ParseDate(tc.in)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.in, d.String())
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	task := Task{Deadline: &Date{}}
	*task.Deadline = NewDate(2025, time.March, 10)

	out, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"deadline":"2025-03-10"`)

	var decoded struct {
		Deadline *Date `json:"deadline"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2025-03-10"}`), &decoded))
	assert.Equal(t, "2025-03-10", decoded.Deadline.String())
	assert.Error(t, json.Unmarshal([]byte(`{"deadline":"2025-02-30"}`), &decoded))
}
