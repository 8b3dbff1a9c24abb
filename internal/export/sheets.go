package export

import (
	"context"
	"fmt"
	"os"

	"shareit/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsWriter replaces the Bookings sheet of a spreadsheet with the report.
type SheetsWriter struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsWriter authenticates with a service account credentials file.
func NewSheetsWriter(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsWriter, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsWriter{service: srv, spreadsheetID: spreadsheetID}, nil
}

// NewSheetsWriterWithService wraps an already configured Sheets service.
func NewSheetsWriterWithService(srv *sheets.Service, spreadsheetID string) *SheetsWriter {
	return &SheetsWriter{service: srv, spreadsheetID: spreadsheetID}
}

// ReplaceBookingsSheet clears the sheet and writes headers plus one row per booking.
func (w *SheetsWriter) ReplaceBookingsSheet(ctx context.Context, bookings []*models.BookingView) error {
	_, err := w.service.Spreadsheets.Values.
		Clear(w.spreadsheetID, sheetName+"!A1:Z", &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear bookings sheet: %w", err)
	}

	values := append([][]interface{}{Headers}, Rows(bookings)...)
	_, err = w.service.Spreadsheets.Values.
		Update(w.spreadsheetID, sheetName+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update bookings sheet: %w", err)
	}
	return nil
}
