package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"tradeJournal/internal/ports"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// parseDate accepts a calendar date or an RFC3339 timestamp. Blank input yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or RFC3339", ports.ErrInvalidRequest, s)
	}
	return t, nil
}

// resolveID matches a full id or a unique id prefix against candidates.
func resolveID(arg string, candidates []uuid.UUID) (uuid.UUID, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return uuid.Nil, fmt.Errorf("%w: empty trade id", ports.ErrInvalidRequest)
	}
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}

	var match uuid.UUID
	found := 0
	for _, id := range candidates {
		if strings.HasPrefix(id.String(), arg) {
			match = id
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("trade %q: %w", arg, ports.ErrNotFound)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: trade id prefix %q is ambiguous (%d matches)", ports.ErrInvalidRequest, arg, found)
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

func formatNumber(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
