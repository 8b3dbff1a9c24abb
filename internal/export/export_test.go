package export

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func sampleBookings() []*models.BookingView {
	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	return []*models.BookingView{
		{
			ID: 2, Start: base.Add(24 * time.Hour), End: base.Add(48 * time.Hour), Status: models.StatusApproved,
			Item: models.ItemShort{ID: 5, Name: "Drill"}, Booker: models.UserShort{ID: 9, Name: "bob"},
		},
		{
			ID: 1, Start: base, End: base.Add(time.Hour), Status: models.StatusWaiting,
			Item: models.ItemShort{ID: 6, Name: "Ladder"}, Booker: models.UserShort{ID: 8, Name: "alice"},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleBookings())
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{int64(1), int64(6), "Ladder", int64(8), "alice", "2026-07-01 10:00", "2026-07-01 11:00", "WAITING"}, rows[0])
	assert.Equal(t, int64(2), rows[1][0])
	assert.Len(t, Headers, len(rows[0]))
}

func TestPeriodAround(t *testing.T) {
	now := time.Date(2026, 7, 15, 18, 30, 0, 0, time.UTC)
	p := PeriodAround(now, 7, 30)
	assert.Equal(t, time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC), p.From)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), p.To)

	// 01:30 on the 16th in UTC+3 is still the 15th in UTC
	local := time.Date(2026, 7, 16, 1, 30, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	assert.Equal(t, p, PeriodAround(local, 7, 30))

	// 21:00 on the 15th in UTC-5 is already the 16th in UTC
	west := time.Date(2026, 7, 15, 21, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	shifted := PeriodAround(west, 7, 30)
	assert.Equal(t, time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC), shifted.From)
	assert.Equal(t, time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC), shifted.To)
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	period := Period{From: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC)}

	path, err := WriteXLSX(dir, period, sampleBookings())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "bookings_2026-07-01_to_2026-07-07.xlsx"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Period: 2026-07-01 - 2026-07-07", title)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "ID", rows[1][0])
	assert.Equal(t, "Ladder", rows[2][2])
	assert.Equal(t, "APPROVED", rows[3][7])
}

func TestSheetsWriter_ReplaceBookingsSheet(t *testing.T) {
	var (
		mu      sync.Mutex
		calls   []string
		written sheets.ValueRange
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			_ = json.NewDecoder(r.Body).Decode(&written)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	ctx := context.Background()
	srv, err := sheets.NewService(ctx, option.WithEndpoint(ts.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	writer := NewSheetsWriterWithService(srv, "sheet-1")
	require.NoError(t, writer.ReplaceBookingsSheet(ctx, sampleBookings()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.True(t, strings.HasPrefix(calls[0], "POST /v4/spreadsheets/sheet-1/values/"))
	assert.True(t, strings.HasSuffix(calls[0], ":clear"))
	assert.True(t, strings.HasPrefix(calls[1], "PUT /v4/spreadsheets/sheet-1/values/"))
	require.Len(t, written.Values, 3)
	assert.Equal(t, "ID", written.Values[0][0])
}

func TestSheetsWriter_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	defer ts.Close()

	ctx := context.Background()
	srv, err := sheets.NewService(ctx, option.WithEndpoint(ts.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	err = NewSheetsWriterWithService(srv, "sheet-1").ReplaceBookingsSheet(ctx, nil)
	assert.ErrorContains(t, err, "clear bookings sheet")

	_, err = NewSheetsWriter(ctx, "missing-credentials.json", "sheet-1")
	assert.Error(t, err)
}
