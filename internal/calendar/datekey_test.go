package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
)

func TestDateKeyOf(t *testing.T) {
	hcm := time.FixedZone("ICT", 7*60*60)

	tests := []struct {
		name string
		in   time.Time
		want domain.DateKey
	}{
		{"two digit month and day", time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC), "10/10/2025"},
		{"single digit month", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), "1/11/2025"},
		{"single digit day", time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC), "12/3/2025"},
		{"uses the time's own location", time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC).In(hcm), "1/11/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateKeyOf(tt.in))
		})
	}
}

func TestToday(t *testing.T) {
	fixed := func() time.Time { return time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC) }
	assert.Equal(t, domain.DateKey("2/28/2026"), Today(fixed))
	assert.NotEmpty(t, Today(nil))
}
