package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/complyview/complyview/internal/rest"
	"github.com/complyview/complyview/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

type KPIsDTO struct {
	TotalPlanned    int `json:"totalPlanned"`
	Completed       int `json:"completed"`
	Pending         int `json:"pending"`
	DueSoon         int `json:"dueSoon"`
	Missed          int `json:"missed"`
	ComplianceScore int `json:"complianceScore"`
}

type MissedEntryDTO struct {
	Task        string `json:"task"`
	PeriodLabel string `json:"periodLabel"`
	Date        string `json:"date"`
	DaysOverdue int    `json:"daysOverdue"`
}

type UpcomingEntryDTO struct {
	Task        string `json:"task"`
	PeriodLabel string `json:"periodLabel"`
	Date        string `json:"date"`
}

type MonthBucketDTO struct {
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Missed    int `json:"missed"`
}

type TaskBreakdownDTO struct {
	Label     string `json:"label"`
	Planned   int    `json:"planned"`
	Completed int    `json:"completed"`
}

type PanelDTO struct {
	Name      string             `json:"name"`
	KPIs      KPIsDTO            `json:"kpis"`
	Next      *UpcomingEntryDTO  `json:"next,omitempty"`
	Breakdown []TaskBreakdownDTO `json:"breakdown,omitempty"`
}

// WeeklyRowDTO carries raw counts plus render-ready percentages. With a zero
// total every percentage is 0 rather than a division by zero.
type WeeklyRowDTO struct {
	WeekStart        string `json:"weekStart"`
	Total            int    `json:"total"`
	Completed        int    `json:"completed"`
	Pending          int    `json:"pending"`
	Missed           int    `json:"missed"`
	CompletedPercent int    `json:"completedPercent"`
	PendingPercent   int    `json:"pendingPercent"`
	MissedPercent    int    `json:"missedPercent"`
}

type AuditCountdownDTO struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	DaysToStart int    `json:"daysToStart"`
}

type MetaDTO struct {
	SheetName       string     `json:"sheetName"`
	SourceName      string     `json:"sourceName"`
	SourceUpdatedAt *time.Time `json:"sourceUpdatedAt,omitempty"`
	ExtractedAt     *time.Time `json:"extractedAt,omitempty"`
}

type MetricsDTO struct {
	KPIs         KPIsDTO                      `json:"kpis"`
	MissedList   []MissedEntryDTO             `json:"missedList"`
	UpcomingList []UpcomingEntryDTO           `json:"upcomingList"`
	MonthBuckets map[string]MonthBucketDTO    `json:"monthBuckets"`
	Panels       []PanelDTO                   `json:"panels"`
	Weekly       []WeeklyRowDTO               `json:"weekly"`
	Audits       map[string]AuditCountdownDTO `json:"audits"`
	Meta         MetaDTO                      `json:"meta"`
}

type SlotDTO struct {
	Bg          string `json:"bg"`
	Text        string `json:"text,omitempty"`
	Date        string `json:"date"`
	MonthName   string `json:"monthName"`
	WeekOfMonth int    `json:"weekOfMonth"`
}

type TaskDTO struct {
	Label string    `json:"label"`
	Cells []SlotDTO `json:"cells"`
}

type WeekColumnDTO struct {
	MonthName   string `json:"monthName"`
	WeekOfMonth int    `json:"weekOfMonth"`
}

type SnapshotDTO struct {
	Id          string          `json:"id"`
	Tasks       []TaskDTO       `json:"tasks"`
	WeekColumns []WeekColumnDTO `json:"weekCols"`
	Meta        MetaDTO         `json:"meta"`
}

type Handler struct {
	service  Service
	renderer ActionListRenderer
}

func NewHandler(service Service, renderer ActionListRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GetDashboard serves the derived metrics as JSON, or as a CSV action list
// when the client asks for text/csv.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.GetDashboard(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.renderer.RenderActionList(metrics)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write CSV response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(metricsToDTO(&metrics)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetSnapshot serves the raw snapshot grid for the table view.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetSnapshot(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshotToDTO(&snap)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeUnavailable(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, snapshot.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   "Snapshot not available",
		Details: err.Error(),
	})
	if encodeErr != nil {
		log.Errorf("failed to encode error response: %v", encodeErr)
	}
}

func metricsToDTO(metrics *Metrics) *MetricsDTO {
	missed := make([]MissedEntryDTO, 0, len(metrics.MissedList))
	for _, entry := range metrics.MissedList {
		missed = append(missed, MissedEntryDTO(entry))
	}
	upcoming := make([]UpcomingEntryDTO, 0, len(metrics.UpcomingList))
	for _, entry := range metrics.UpcomingList {
		upcoming = append(upcoming, UpcomingEntryDTO(entry))
	}

	months := make(map[string]MonthBucketDTO, len(metrics.MonthBuckets))
	for name, bucket := range metrics.MonthBuckets {
		months[name] = MonthBucketDTO(bucket)
	}

	panels := make([]PanelDTO, 0, len(metrics.Panels))
	for _, panel := range metrics.Panels {
		panelDTO := PanelDTO{
			Name: panel.Name,
			KPIs: KPIsDTO(panel.KPIs),
		}
		if panel.Next != nil {
			next := UpcomingEntryDTO(*panel.Next)
			panelDTO.Next = &next
		}
		for _, breakdown := range panel.Breakdown {
			panelDTO.Breakdown = append(panelDTO.Breakdown, TaskBreakdownDTO(breakdown))
		}
		panels = append(panels, panelDTO)
	}

	weekly := make([]WeeklyRowDTO, 0, len(metrics.Weekly))
	for _, row := range metrics.Weekly {
		weekly = append(weekly, WeeklyRowDTO{
			WeekStart:        row.WeekStart,
			Total:            row.Total,
			Completed:        row.Completed,
			Pending:          row.Pending,
			Missed:           row.Missed,
			CompletedPercent: percentage(row.Completed, row.Total),
			PendingPercent:   percentage(row.Pending, row.Total),
			MissedPercent:    percentage(row.Missed, row.Total),
		})
	}

	audits := make(map[string]AuditCountdownDTO, len(metrics.Audits))
	for name, countdown := range metrics.Audits {
		audits[name] = AuditCountdownDTO(countdown)
	}

	return &MetricsDTO{
		KPIs:         KPIsDTO(metrics.KPIs),
		MissedList:   missed,
		UpcomingList: upcoming,
		MonthBuckets: months,
		Panels:       panels,
		Weekly:       weekly,
		Audits:       audits,
		Meta:         metaToDTO(metrics.Meta),
	}
}

func snapshotToDTO(snap *snapshot.Snapshot) *SnapshotDTO {
	tasks := make([]TaskDTO, 0, len(snap.Tasks))
	for _, task := range snap.Tasks {
		taskDTO := TaskDTO{Label: task.Label, Cells: make([]SlotDTO, 0, len(task.Slots))}
		for _, slot := range task.Slots {
			taskDTO.Cells = append(taskDTO.Cells, SlotDTO{
				Bg:          slot.FillColor,
				Text:        slot.Text,
				Date:        slot.Date,
				MonthName:   slot.MonthName,
				WeekOfMonth: slot.WeekOfMonth,
			})
		}
		tasks = append(tasks, taskDTO)
	}

	weekCols := make([]WeekColumnDTO, 0, len(snap.WeekColumns))
	for _, col := range snap.WeekColumns {
		weekCols = append(weekCols, WeekColumnDTO(col))
	}

	return &SnapshotDTO{
		Id:          snap.Id,
		Tasks:       tasks,
		WeekColumns: weekCols,
		Meta:        metaToDTO(snap.Meta),
	}
}

func metaToDTO(meta snapshot.Meta) MetaDTO {
	dto := MetaDTO{
		SheetName:  meta.SheetName,
		SourceName: meta.SourceName,
	}
	if !meta.SourceUpdatedAt.IsZero() {
		updatedAt := meta.SourceUpdatedAt
		dto.SourceUpdatedAt = &updatedAt
	}
	if !meta.ExtractedAt.IsZero() {
		extractedAt := meta.ExtractedAt
		dto.ExtractedAt = &extractedAt
	}
	return dto
}

func percentage(count int, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(count)/float64(total)*100 + 0.5)
}
