package service

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// mapNotFound 将记录不存在统一映射为场次不存在
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSessionNotFound
	}
	return err
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
