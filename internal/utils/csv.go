package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

var closedTradeHeader = []string{"id", "asset_class", "pair", "risk", "open_date", "close_date", "result"}

// WriteClosedTradesCSV writes the closed trade history as CSV, one row per trade in the given order.
func WriteClosedTradesCSV(w io.Writer, trades []domain.ClosedTrade) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(closedTradeHeader); err != nil {
		return err
	}
	for _, t := range trades {
		err := writer.Write([]string{
			t.ID.String(),
			string(t.AssetClass),
			t.PairSymbol,
			t.Risk.String(),
			t.OpenDate.UTC().Format(time.RFC3339),
			t.CloseDate.UTC().Format(time.RFC3339),
			t.Result.String(),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteClosedTradesCSVFile creates (or truncates) filename and writes the history to it.
func WriteClosedTradesCSVFile(filename string, trades []domain.ClosedTrade) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory '%s': %w", dir, err)
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteClosedTradesCSV(file, trades); err != nil {
		return fmt.Errorf("failed to write '%s': %w", filename, err)
	}
	return file.Close()
}

// ReadClosedTradesCSV parses a history previously written by WriteClosedTradesCSV.
func ReadClosedTradesCSV(r io.Reader) ([]domain.ClosedTrade, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(closedTradeHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.ClosedTrade{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i, col := range closedTradeHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %q at position %d, want %q", header[i], i+1, col)
		}
	}

	trades := []domain.ClosedTrade{}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := parseClosedRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// ReadClosedTradesCSVFile reads an exported history file.
func ReadClosedTradesCSVFile(filename string) ([]domain.ClosedTrade, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadClosedTradesCSV(file)
}

func parseClosedRecord(rec []string) (domain.ClosedTrade, error) {
	var t domain.ClosedTrade
	var err error

	if t.ID, err = uuid.Parse(rec[0]); err != nil {
		return t, fmt.Errorf("invalid id %q: %w", rec[0], err)
	}
	t.AssetClass = domain.AssetClass(rec[1])
	if !t.AssetClass.Valid() {
		return t, fmt.Errorf("invalid asset class %q", rec[1])
	}
	t.PairSymbol = rec[2]
	if t.Risk, err = decimal.NewFromString(rec[3]); err != nil {
		return t, fmt.Errorf("invalid risk %q: %w", rec[3], err)
	}
	if t.OpenDate, err = time.Parse(time.RFC3339, rec[4]); err != nil {
		return t, fmt.Errorf("invalid open date %q: %w", rec[4], err)
	}
	if t.CloseDate, err = time.Parse(time.RFC3339, rec[5]); err != nil {
		return t, fmt.Errorf("invalid close date %q: %w", rec[5], err)
	}
	if t.Result, err = decimal.NewFromString(rec[6]); err != nil {
		return t, fmt.Errorf("invalid result %q: %w", rec[6], err)
	}
	return t, nil
}
