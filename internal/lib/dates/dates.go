// Package dates содержит календарную арифметику для расчёта сроков оплаты.
package dates

import "time"

// AddMonths прибавляет к дате заданное количество календарных месяцев.
// Если в целевом месяце меньше дней, число прижимается к последнему дню
// месяца: 31 января + 1 месяц = 28/29 февраля. time.AddDate здесь не
// подходит, он переносит переполнение на следующий месяц.
func AddMonths(date time.Time, months int) time.Time {
	year, month, day := date.Date()

	totalMonths := int(month) - 1 + months
	targetYear := year + totalMonths/12
	targetMonth := time.Month(totalMonths%12 + 1)
	if totalMonths < 0 {
		targetYear = year + (totalMonths-11)/12
		targetMonth = time.Month((totalMonths%12+12)%12 + 1)
	}

	lastDay := daysIn(targetYear, targetMonth)
	if day > lastDay {
		day = lastDay
	}

	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, date.Location())
}

// PaidUntil вычисляет дату окончания оплаченного периода.
// Поле paid_until в хранилище — всегда кэш этой формулы, а не ввод пользователя.
func PaidUntil(paidOn time.Time, durationMonths int) time.Time {
	return AddMonths(paidOn, durationMonths)
}

// Day обрезает время до границы суток, сохраняя локацию.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	// первый день следующего месяца минус один день
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
