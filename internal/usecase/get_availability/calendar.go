package get_availability

import (
	"sort"
	"time"

	"github.com/kaamconnect/KaamConnect-RentalService/internal/domain"
)

const day = 24 * time.Hour

// truncateDay отбрасывает время, оставляя дату
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// resolvePeriod вычисляет период календаря с учетом окна доступности
func resolvePeriod(eq *domain.Equipment, req *Request, now time.Time) (time.Time, time.Time) {
	from := truncateDay(now)
	if eq.AvailabilityStart != nil && eq.AvailabilityStart.After(from) {
		from = truncateDay(*eq.AvailabilityStart)
	}
	if req.From != nil {
		from = truncateDay(*req.From)
	}

	to := from.AddDate(0, 0, DefaultHorizonDays)
	if eq.AvailabilityEnd != nil {
		to = truncateDay(*eq.AvailabilityEnd)
	}
	if req.To != nil {
		to = truncateDay(*req.To)
	}

	return from, to
}

// clipToWindow сужает период до окна доступности.
// Возвращает false, если пересечения нет.
func clipToWindow(eq *domain.Equipment, from, to time.Time) (time.Time, time.Time, bool) {
	if eq.AvailabilityStart != nil {
		if start := truncateDay(*eq.AvailabilityStart); start.After(from) {
			from = start
		}
	}
	if eq.AvailabilityEnd != nil {
		if end := truncateDay(*eq.AvailabilityEnd); end.Before(to) {
			to = end
		}
	}
	return from, to, !from.After(to)
}

// blockedRanges возвращает занятые периоды, пересекающиеся с [from, to], отсортированные по началу
func blockedRanges(bookings []*domain.Booking, from, to time.Time) []BlockedRange {
	result := make([]BlockedRange, 0, len(bookings))
	for _, b := range bookings {
		if !b.BlocksCalendar() || !b.Overlaps(from, to.Add(day-time.Nanosecond)) {
			continue
		}
		result = append(result, BlockedRange{
			DateRange: DateRange{Start: truncateDay(b.StartDate), End: truncateDay(b.EndDate)},
			Status:    b.Status,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})
	return result
}

// freeRanges вычисляет свободные дни периода [from, to] за вычетом занятых
func freeRanges(blocked []BlockedRange, from, to time.Time) []DateRange {
	free := make([]DateRange, 0)
	cursor := from

	for _, b := range blocked {
		if b.Start.After(cursor) {
			end := b.Start.Add(-day)
			if end.After(to) {
				end = to
			}
			if !cursor.After(end) {
				free = append(free, DateRange{Start: cursor, End: end})
			}
		}
		if next := b.End.Add(day); next.After(cursor) {
			cursor = next
		}
		if cursor.After(to) {
			return free
		}
	}

	if !cursor.After(to) {
		free = append(free, DateRange{Start: cursor, End: to})
	}
	return free
}
