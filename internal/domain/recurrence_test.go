package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurrenceSpec_IsNone(t *testing.T) {
	assert.True(t, RecurrenceSpec{}.IsNone())
	assert.True(t, RecurrenceSpec{Unit: RecurrenceNone}.IsNone())
	assert.False(t, RecurrenceSpec{Unit: RecurrenceHourly, Multiplier: 2}.IsNone())
}

func TestRecurrenceSpec_Interval(t *testing.T) {
	tests := []struct {
		name    string
		spec    RecurrenceSpec
		want    time.Duration
		wantErr bool
	}{
		{name: "three times per day", spec: RecurrenceSpec{Unit: RecurrencePerDay, Multiplier: 3}, want: 8 * time.Hour},
		{name: "per day must divide evenly", spec: RecurrenceSpec{Unit: RecurrencePerDay, Multiplier: 7}, wantErr: true},
		{name: "per day zero", spec: RecurrenceSpec{Unit: RecurrencePerDay, Multiplier: 0}, wantErr: true},
		{name: "every 2 hours", spec: RecurrenceSpec{Unit: RecurrenceHourly, Multiplier: 2}, want: 2 * time.Hour},
		{name: "every 5 hours unsupported", spec: RecurrenceSpec{Unit: RecurrenceHourly, Multiplier: 5}, wantErr: true},
		{name: "twice weekly", spec: RecurrenceSpec{Unit: RecurrencePerWeek, Multiplier: 2}, want: 84 * time.Hour},
		{name: "eight per week unsupported", spec: RecurrenceSpec{Unit: RecurrencePerWeek, Multiplier: 8}, wantErr: true},
		{name: "every 15 minutes", spec: RecurrenceSpec{Unit: RecurrenceMinutely, Multiplier: 15}, want: 15 * time.Minute},
		{name: "every 10 minutes unsupported", spec: RecurrenceSpec{Unit: RecurrenceMinutely, Multiplier: 10}, wantErr: true},
		{name: "unknown unit", spec: RecurrenceSpec{Unit: "fortnightly", Multiplier: 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Interval()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRecurrence)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecurrenceSpec_Validate(t *testing.T) {
	require.NoError(t, RecurrenceSpec{}.Validate())
	require.NoError(t, RecurrenceSpec{Unit: RecurrenceMinutely, Multiplier: 30}.Validate())
	require.ErrorIs(t, RecurrenceSpec{Unit: RecurrenceHourly, Multiplier: 7}.Validate(), ErrInvalidRecurrence)
}
