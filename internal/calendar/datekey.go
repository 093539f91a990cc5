package calendar

import (
	"time"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"
)

// dateKeyLayout renders month and day without padding: 1/11/2025, 10/10/2025.
const dateKeyLayout = "1/2/2006"

// DateKeyOf formats t in its own location.
func DateKeyOf(t time.Time) domain.DateKey {
	return domain.DateKey(t.Format(dateKeyLayout))
}

// Today returns the DateKey for now(). A nil now uses time.Now.
func Today(now func() time.Time) domain.DateKey {
	if now == nil {
		now = time.Now
	}
	return DateKeyOf(now())
}
