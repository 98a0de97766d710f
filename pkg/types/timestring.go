package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeStringFormat формат времени HH:MM
const timeStringFormat = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате строки времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange возвращается, когда результат арифметики выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// TimeString время суток в формате "HH:MM" (без даты и таймзоны)
// Используется для времени начала слотов и границ рабочего дня
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringFormat))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала суток
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет, что строка имеет формат HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeStringFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут с начала суток
// Для невалидного значения возвращает ошибку
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse(timeStringFormat, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// IsBefore возвращает true, если t строго раньше other
// Невалидные значения считаются равными (сравнение не паникует)
func (t TimeString) IsBefore(other TimeString) bool {
	tm, err1 := t.Minutes()
	om, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return tm < om
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// AddMinutes возвращает время через minutes минут
// Возвращает ошибку, если результат выходит за пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	tm, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(tm + minutes)
}

// Scan реализует sql.Scanner для чтения из колонок TIME и TEXT
func (t *TimeString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, value)
	}
}

func (t *TimeString) scanString(s string) error {
	// Postgres отдает TIME как "HH:MM:SS" - отрезаем секунды
	if len(s) > 5 {
		s = s[:5]
	}
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}
