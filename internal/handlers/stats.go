package handlers

import (
	"net/http"

	"go.opentelemetry.io/otel/codes"
)

// Четыре выборки дашборда. Вычисления и кэширование живут в агрегаторе,
// обработчики только оборачивают результат в конверт ответа.

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.Tracer.Start(r.Context(), "http.dashboard_stats")
	defer span.End()

	stats, err := h.Stats.DashboardStats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "расчет статистики не удался")
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	span.SetStatus(codes.Ok, "статистика получена")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"dashboardStats": stats,
	})
}

func (h *Handler) PieCharts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.Tracer.Start(r.Context(), "http.pie_charts")
	defer span.End()

	pie, err := h.Stats.PieCharts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "расчет статистики не удался")
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	span.SetStatus(codes.Ok, "статистика получена")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"pieCharts": pie,
	})
}

func (h *Handler) BarChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.Tracer.Start(r.Context(), "http.bar_chart")
	defer span.End()

	bar, err := h.Stats.BarChart(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "расчет статистики не удался")
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	span.SetStatus(codes.Ok, "статистика получена")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"barChart": bar,
	})
}

func (h *Handler) LineChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.Tracer.Start(r.Context(), "http.line_chart")
	defer span.End()

	line, err := h.Stats.LineChart(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "расчет статистики не удался")
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	span.SetStatus(codes.Ok, "статистика получена")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"lineChart": line,
	})
}
