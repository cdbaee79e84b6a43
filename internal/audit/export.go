package audit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

var csvHeader = []string{"ID", "Timestamp", "Severity", "Message", "Error Code", "Function", "User", "Device", "Request Data", "Stack Trace"}

// TimestampLayout ISO-8601 с миллисекундами
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ExportCSV пишет весь буфер без фильтров, от новых к старым.
// Данные запроса уже замаскированы при записи.
func (l *Logger) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range l.snapshot() {
		row := []string{
			e.ID,
			e.Timestamp.Format(TimestampLayout),
			string(e.Severity),
			flatten(e.Message),
			e.ErrorCode,
			e.FunctionName,
			e.UserID,
			flatten(e.DeviceType),
			flatten(requestJSON(e.RequestData)),
			flatten(e.StackTrace),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func requestJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
