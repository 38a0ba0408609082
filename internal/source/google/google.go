// Package google adapts a Google Sheets worksheet as a record source.
package google

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"hoursreport/internal/core"
	ports "hoursreport/internal/source"
)

// Client reads one worksheet of one spreadsheet. The spreadsheet may be
// addressed by ID or, like the sheets web client, by title; titles are
// resolved through a Drive file query.
type Client struct {
	sheets *gsheet.Service
	drive  *gdrive.Service

	spreadsheetID   string
	spreadsheetName string
	worksheet       string
}

var _ ports.Source = (*Client)(nil)

// Options configure the Google Sheets source.
type Options struct {
	// SpreadsheetID addresses the spreadsheet directly. When empty,
	// SpreadsheetName is resolved via Drive.
	SpreadsheetID string
	// SpreadsheetName is the spreadsheet title, e.g. "PTA_Volunteer_Hours_2025-26".
	SpreadsheetName string
	// Worksheet is the sheet (tab) name, e.g. "hours".
	Worksheet string
	// CredentialsFile is a service-account JSON key path. Falls back to
	// GOOGLE_APPLICATION_CREDENTIALS, then ambient ADC.
	CredentialsFile string
}

// New creates a Sheets-backed source using service-account credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.SpreadsheetID == "" && opts.SpreadsheetName == "" {
		return nil, goerr.New("spreadsheet ID or name is required", goerr.T(core.TagSource))
	}
	if opts.Worksheet == "" {
		return nil, goerr.New("worksheet name is required", goerr.T(core.TagSource))
	}

	clientOpts, err := credentialOptions(opts.CredentialsFile)
	if err != nil {
		return nil, err
	}

	sheetsSvc, err := gsheet.NewService(ctx, append(clientOpts,
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))...)
	if err != nil {
		return nil, goerr.Wrap(err, "create sheets service", goerr.T(core.TagSource))
	}

	var driveSvc *gdrive.Service
	if opts.SpreadsheetID == "" {
		driveSvc, err = gdrive.NewService(ctx, append(clientOpts,
			goption.WithScopes(gdrive.DriveReadonlyScope))...)
		if err != nil {
			return nil, goerr.Wrap(err, "create drive service", goerr.T(core.TagSource))
		}
	}

	return &Client{
		sheets:          sheetsSvc,
		drive:           driveSvc,
		spreadsheetID:   opts.SpreadsheetID,
		spreadsheetName: opts.SpreadsheetName,
		worksheet:       opts.Worksheet,
	}, nil
}

func credentialOptions(credentialsFile string) ([]goption.ClientOption, error) {
	if credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if credentialsFile == "" {
		// Ambient ADC (e.g. the service account of the Cloud Run instance).
		return nil, nil
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, goerr.Wrap(err, "credentials file not readable",
			goerr.V("path", credentialsFile), goerr.T(core.TagSource))
	}
	return []goption.ClientOption{goption.WithCredentialsFile(credentialsFile)}, nil
}

// FetchAll reads the whole worksheet and maps each data row onto the
// header row, mirroring the "all records" read of the original sheet
// client: blank trailing cells become empty strings, fully blank rows are
// skipped.
func (c *Client) FetchAll(ctx context.Context) ([]core.RawRecord, error) {
	id, err := c.resolveSpreadsheetID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.sheets.Spreadsheets.Values.Get(id, c.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "read worksheet",
			goerr.V("spreadsheet", id), goerr.V("worksheet", c.worksheet),
			goerr.T(core.TagSource))
	}
	return recordsFromValues(resp.Values), nil
}

// resolveSpreadsheetID turns the configured title into a file ID via a
// Drive name query, keeping the first match. A configured ID short-circuits
// the lookup and is cached after the first resolution.
func (c *Client) resolveSpreadsheetID(ctx context.Context) (string, error) {
	if c.spreadsheetID != "" {
		return c.spreadsheetID, nil
	}
	query := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(c.spreadsheetName, "'", `\'`))
	list, err := c.drive.Files.List().Q(query).PageSize(1).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", goerr.Wrap(err, "resolve spreadsheet by name",
			goerr.V("name", c.spreadsheetName), goerr.T(core.TagSource))
	}
	if len(list.Files) == 0 {
		return "", goerr.New("spreadsheet not found",
			goerr.V("name", c.spreadsheetName), goerr.T(core.TagSource))
	}
	c.spreadsheetID = list.Files[0].Id
	return c.spreadsheetID, nil
}

// recordsFromValues maps each data row onto the header row. Trailing
// blank cells become empty strings so every record carries every header;
// fully blank rows and unnamed columns are skipped.
func recordsFromValues(values [][]interface{}) []core.RawRecord {
	if len(values) == 0 {
		return nil
	}
	headers := toStrings(values[0])
	records := make([]core.RawRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		cells := toStrings(row)
		if blankRow(cells) {
			continue
		}
		rec := make(core.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				rec[h] = cells[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
