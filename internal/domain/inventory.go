package domain

// AdjustmentType вид ручной корректировки остатка
type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "add"
	AdjustmentRemove AdjustmentType = "remove"
	AdjustmentSet    AdjustmentType = "set"
)

// StockAdjustment запрос на корректировку остатка. Не хранится, только применяется.
type StockAdjustment struct {
	Type     AdjustmentType `json:"type" validate:"required,oneof=add remove set"`
	Quantity int            `json:"quantity" validate:"min=0"`
	Reason   string         `json:"reason" validate:"required"`
}

// Apply вычисляет новый остаток; результат никогда не отрицательный
func (a StockAdjustment) Apply(current int) int {
	var next int
	switch a.Type {
	case AdjustmentAdd:
		next = current + a.Quantity
	case AdjustmentRemove:
		next = current - a.Quantity
	case AdjustmentSet:
		next = a.Quantity
	default:
		next = current
	}
	if next < 0 {
		return 0
	}
	return next
}

// StockLevel фильтр по уровню остатка в складском списке
type StockLevel string

const (
	StockLevelAll StockLevel = "all"
	StockLevelLow StockLevel = "low"
	StockLevelOut StockLevel = "out"
)

// AlertConfig настройки уведомлений о низком остатке
type AlertConfig struct {
	Dashboard bool `json:"dashboard"`
	Email     bool `json:"email"`
}
