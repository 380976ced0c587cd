package dashboard

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// ActionListRenderer renders the missed and upcoming deadline lists into an
// exportable format.
type ActionListRenderer interface {
	RenderActionList(metrics Metrics) (string, error)
}

type CsvActionListRendererImpl struct {
}

func NewCsvActionListRenderer() *CsvActionListRendererImpl {
	return &CsvActionListRendererImpl{}
}

// RenderActionList produces the audit-evidence export: one row per missed
// deadline followed by one row per upcoming deadline, both already sorted by
// date by the aggregation engine.
func (t *CsvActionListRendererImpl) RenderActionList(metrics Metrics) (string, error) {
	data := make([][]string, 0, 1+len(metrics.MissedList)+len(metrics.UpcomingList))
	data = append(data, []string{"Status", "Task", "Period", "Date", "Days overdue"})

	for _, entry := range metrics.MissedList {
		data = append(data, []string{
			"MISSED",
			entry.Task,
			entry.PeriodLabel,
			entry.Date,
			strconv.Itoa(entry.DaysOverdue),
		})
	}
	for _, entry := range metrics.UpcomingList {
		data = append(data, []string{
			"DUE SOON",
			entry.Task,
			entry.PeriodLabel,
			entry.Date,
			"",
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
