package sheets

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/complyview/complyview/internal/config"
	"github.com/complyview/complyview/pkg/snapshot"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// Grid layout of the tracker sheet: three header rows (month names,
// week-of-month indexes, ISO week dates), then one row per task with the
// label in the first column.
const headerRows = 3

// Fetcher extracts a snapshot straight from the tracker spreadsheet via the
// Google Sheets API, reading cell values and background fill colors. It is
// the extraction collaborator for deployments without a published JSON feed.
type Fetcher struct {
	cfg config.Sheets
}

func NewFetcher(cfg config.Sheets) *Fetcher {
	return &Fetcher{cfg: cfg}
}

func (f *Fetcher) Fetch(ctx context.Context) (snapshot.Snapshot, error) {
	service, err := f.prepareSheetsService(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	spreadsheet, err := service.Spreadsheets.Get(f.cfg.SpreadsheetId).
		Ranges(f.cfg.SheetName).
		IncludeGridData(true).
		Context(ctx).
		Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve tracker spreadsheet: %v", err)
		log.Error(err)
		return snapshot.Snapshot{}, err
	}
	if len(spreadsheet.Sheets) == 0 || len(spreadsheet.Sheets[0].Data) == 0 {
		return snapshot.Snapshot{}, fmt.Errorf("%w: sheet %q has no grid data", snapshot.ErrUnavailable, f.cfg.SheetName)
	}

	snap := extractSnapshot(spreadsheet.Sheets[0].Data[0].RowData)
	snap.Id = uuid.NewString()
	snap.Meta = snapshot.Meta{
		SheetName:   f.cfg.SheetName,
		SourceName:  spreadsheet.Properties.Title,
		ExtractedAt: time.Now().UTC(),
	}
	log.Debugf("Extracted snapshot %s with %d tasks from spreadsheet %s", snap.Id, len(snap.Tasks), f.cfg.SpreadsheetId)
	return snap, nil
}

// prepareSheetsService returns a Sheets API client authenticated with the
// configured service credentials.
func (f *Fetcher) prepareSheetsService(ctx context.Context) (*gsheets.Service, error) {
	data, err := os.ReadFile(f.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read Google credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, gsheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Google credentials: %w", err)
	}
	service, err := gsheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Sheets client: %w", err)
	}
	return service, nil
}

func extractSnapshot(rows []*gsheets.RowData) snapshot.Snapshot {
	snap := snapshot.Snapshot{
		Tasks:       []snapshot.Task{},
		WeekColumns: []snapshot.WeekColumn{},
	}
	if len(rows) < headerRows {
		return snap
	}

	monthRow := rows[0].Values
	weekRow := rows[1].Values
	dateRow := rows[2].Values

	// Column 0 holds task labels; every further column is one week slot.
	columns := len(monthRow)
	for col := 1; col < columns; col++ {
		snap.WeekColumns = append(snap.WeekColumns, snapshot.WeekColumn{
			MonthName:   cellValue(monthRow, col),
			WeekOfMonth: cellNumber(weekRow, col),
		})
	}

	for _, row := range rows[headerRows:] {
		label := cellValue(row.Values, 0)
		if strings.TrimSpace(label) == "" {
			continue
		}
		task := snapshot.Task{Label: label, Slots: make([]snapshot.Slot, 0, columns-1)}
		for col := 1; col < columns; col++ {
			task.Slots = append(task.Slots, snapshot.Slot{
				FillColor:   cellBackground(row.Values, col),
				Text:        cellValue(row.Values, col),
				Date:        cellValue(dateRow, col),
				MonthName:   cellValue(monthRow, col),
				WeekOfMonth: cellNumber(weekRow, col),
			})
		}
		snap.Tasks = append(snap.Tasks, task)
	}
	return snap
}

func cellValue(cells []*gsheets.CellData, col int) string {
	if col >= len(cells) || cells[col] == nil {
		return ""
	}
	return cells[col].FormattedValue
}

func cellNumber(cells []*gsheets.CellData, col int) int {
	n, err := strconv.Atoi(strings.TrimSpace(cellValue(cells, col)))
	if err != nil {
		return 0
	}
	return n
}

// cellBackground converts the cell's effective background color to the
// "#rrggbb" form the classifier equivalence sets use. Cells without explicit
// formatting read as white.
func cellBackground(cells []*gsheets.CellData, col int) string {
	if col >= len(cells) || cells[col] == nil {
		return ""
	}
	format := cells[col].EffectiveFormat
	if format == nil || format.BackgroundColor == nil {
		return ""
	}
	bg := format.BackgroundColor
	return fmt.Sprintf("#%02x%02x%02x", colorChannel(bg.Red), colorChannel(bg.Green), colorChannel(bg.Blue))
}

func colorChannel(value float64) int {
	channel := int(value*255 + 0.5)
	if channel < 0 {
		return 0
	}
	if channel > 255 {
		return 255
	}
	return channel
}
