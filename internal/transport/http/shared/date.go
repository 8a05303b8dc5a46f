package shared

import "time"

const dateLayout = "2006-01-02"

func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

func ParseDatePtr(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
