package stats

import (
	"math"
	"time"
)

// CalculatePercentage — процент изменения текущего периода к прошлому,
// округленный до целого. При пустом прошлом периоде прошлого нечем делить,
// возвращаем current*100.
func CalculatePercentage(current, previous float64) int {
	if previous == 0 {
		return int(math.Round(current * 100))
	}
	return int(math.Round((current - previous) / previous * 100))
}

// ChartPoint — документ для помесячной серии: дата создания и вклад
// (1 для подсчета штук, сумма поля для выручки/скидок).
type ChartPoint struct {
	CreatedAt time.Time
	Value     float64
}

// ChartData раскладывает документы по календарным месяцам в серию длины
// length, последний элемент — текущий месяц. Разница месяцев считается
// через год*12+месяц: документ старше окна не попадает ни в одну корзину
// (а не заворачивается по модулю в чужой месяц).
func ChartData(length int, now time.Time, points []ChartPoint) []float64 {
	data := make([]float64, length)
	for _, p := range points {
		monthDiff := monthsBetween(p.CreatedAt, now)
		if monthDiff >= 0 && monthDiff < length {
			data[length-1-monthDiff] += p.Value
		}
	}
	return data
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// countPoints превращает даты создания в точки с весом 1.
func countPoints(times []time.Time) []ChartPoint {
	points := make([]ChartPoint, len(times))
	for i, t := range times {
		points[i] = ChartPoint{CreatedAt: t, Value: 1}
	}
	return points
}
