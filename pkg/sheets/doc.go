// Package sheets fetches the four sheets of the beach spreadsheet: beaches,
// weather, tides and recommendations. A spreadsheet can be read through its
// public CSV export (Published) or through the Google Sheets API (API).
package sheets
