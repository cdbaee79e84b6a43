// Package audit хранит журнал действий в ограниченном кольцевом буфере.
// Запись в журнал никогда не возвращает ошибку вызывающему коду.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity уровень записи
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Valid известный ли уровень
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// DefaultCapacity сколько последних записей держим в памяти
const DefaultCapacity = 1000

// Context необязательные поля записи
type Context struct {
	ErrorCode    string
	FunctionName string
	UserID       string
	Device       string
	RequestData  any
	Err          error
}

// Entry неизменяемая запись журнала
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	ErrorCode    string    `json:"error_code,omitempty"`
	FunctionName string    `json:"function_name,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	DeviceType   string    `json:"device_type,omitempty"`
	RequestData  any       `json:"request_data,omitempty"`
	StackTrace   string    `json:"stack_trace,omitempty"`
}

// Filter параметры выборки: точный уровень и подстрока без учёта регистра
type Filter struct {
	Severity Severity
	Search   string
}

// Logger журнал аудита. Новые записи в голове, самые старые вытесняются.
type Logger struct {
	mu   sync.RWMutex
	buf  []Entry
	next int
	size int
	log  *slog.Logger
	now  func() time.Time
}

func New(capacity int, log *slog.Logger) *Logger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = slog.Default()
	}
	return &Logger{
		buf: make([]Entry, capacity),
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Log добавляет запись. Никогда не паникует и не возвращает ошибку.
func (l *Logger) Log(sev Severity, message string, c Context) (e Entry) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("audit log failed", "panic", r, "message", message)
		}
	}()

	if !sev.Valid() {
		sev = SeverityInfo
	}
	e = Entry{
		ID:           uuid.NewString(),
		Timestamp:    l.now(),
		Severity:     sev,
		Message:      message,
		ErrorCode:    orDefault(c.ErrorCode, "UNKNOWN"),
		FunctionName: orDefault(c.FunctionName, "Anonymous"),
		UserID:       orDefault(c.UserID, "guest"),
		DeviceType:   c.Device,
		RequestData:  Mask(c.RequestData),
	}
	if c.Err != nil {
		e.StackTrace = stackOf(c.Err)
	}

	l.mu.Lock()
	l.buf[l.next] = e
	l.next = (l.next + 1) % len(l.buf)
	if l.size < len(l.buf) {
		l.size++
	}
	l.mu.Unlock()

	l.mirror(e)
	return e
}

// Info сокращение для INFO
func (l *Logger) Info(message string, c Context) Entry { return l.Log(SeverityInfo, message, c) }

// Warn сокращение для WARNING
func (l *Logger) Warn(message string, c Context) Entry { return l.Log(SeverityWarning, message, c) }

// Error сокращение для ERROR
func (l *Logger) Error(message string, c Context) Entry { return l.Log(SeverityError, message, c) }

// Logs записи от новых к старым с учётом фильтра
func (l *Logger) Logs(f Filter) []Entry {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Entry, 0)
	for _, e := range l.snapshot() {
		if f.Severity != "" && e.Severity != f.Severity {
			continue
		}
		if search != "" && !e.matches(search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Len текущее число записей
func (l *Logger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Capacity предел буфера
func (l *Logger) Capacity() int { return len(l.buf) }

// Clear очищает журнал (явное действие администратора)
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = make([]Entry, len(l.buf))
	l.next = 0
	l.size = 0
}

// snapshot копия буфера от новых к старым
func (l *Logger) snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, 0, l.size)
	n := len(l.buf)
	for i := 0; i < l.size; i++ {
		out = append(out, l.buf[(l.next-1-i+n)%n])
	}
	return out
}

func (e Entry) matches(lowerSearch string) bool {
	for _, field := range []string{e.Message, e.FunctionName, e.UserID, e.ErrorCode} {
		if strings.Contains(strings.ToLower(field), lowerSearch) {
			return true
		}
	}
	return false
}

func (l *Logger) mirror(e Entry) {
	attrs := []slog.Attr{
		slog.String("audit_id", e.ID),
		slog.String("function", e.FunctionName),
		slog.String("user_id", e.UserID),
		slog.String("error_code", e.ErrorCode),
	}
	if e.RequestData != nil {
		attrs = append(attrs, slog.Any("request_data", e.RequestData))
	}
	level := slog.LevelInfo
	switch e.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError, SeverityCritical:
		level = slog.LevelError
	}
	l.log.LogAttrs(context.Background(), level, "["+string(e.Severity)+"] "+e.Message, attrs...)
	if e.Severity == SeverityCritical {
		l.log.Error("critical alert triggered", "audit_id", e.ID, "message", e.Message)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// stackOf текст ошибки вместе с цепочкой обёрнутых ошибок
func stackOf(err error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%T: %v", err, err))
	for inner := errors.Unwrap(err); inner != nil; inner = errors.Unwrap(inner) {
		b.WriteString(fmt.Sprintf("\n    caused by %T: %v", inner, inner))
	}
	return b.String()
}
