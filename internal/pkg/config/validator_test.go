package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"charfreq/pkg/charfreq"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"*/30 * * * *", false},
		{"30 5 * * *", false},
		{"30 9 * * 1-5", false},
		{"", true},
		{"* * *", true},
		{"61 * * * *", true},
		{"0 0 * * * *", true}, // seconds field not accepted
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus_Mons"))
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.NoError(t, ValidateDuration(time.Second, time.Second, time.Hour), "min is inclusive")
	assert.NoError(t, ValidateDuration(time.Hour, time.Second, time.Hour), "max is inclusive")
	assert.ErrorContains(t, ValidateDuration(time.Millisecond, time.Second, time.Hour), "below minimum")
	assert.ErrorContains(t, ValidateDuration(2*time.Hour, time.Second, time.Hour), "exceeds maximum")
	assert.ErrorContains(t, ValidateDuration(time.Minute, time.Hour, time.Second), "invalid range")
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(5, 1, 10))
	assert.NoError(t, ValidateIntRange(1, 1, 10))
	assert.ErrorContains(t, ValidateIntRange(0, 1, 10), "below minimum")
	assert.ErrorContains(t, ValidateIntRange(11, 1, 10), "exceeds maximum")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateThreads(t *testing.T) {
	assert.NoError(t, ValidateThreads(0), "zero selects available parallelism")
	assert.NoError(t, ValidateThreads(MaxThreads))
	assert.Error(t, ValidateThreads(-1))
	assert.Error(t, ValidateThreads(MaxThreads+1))
}

func TestValidateCaseMode(t *testing.T) {
	assert.NoError(t, ValidateCaseMode("sensitive"))
	assert.NoError(t, ValidateCaseMode("insensitive-ascii"))
	assert.NoError(t, ValidateCaseMode("Insensitive"))
	assert.ErrorIs(t, ValidateCaseMode("lower"), charfreq.ErrInvalidCaseMode)
}
