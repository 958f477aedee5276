package mapper

import "time"

// updatedAtPtr treats a zero UpdatedAt column as "never updated".
func updatedAtPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t
	return &v
}

func updatedAtValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
