package audit

import (
	"encoding/json"
	"strings"
)

const (
	maskedSecret = "********"
	maskedCard   = "****-****-****-****"
)

// Mask глубокая копия данных запроса с замаскированными чувствительными полями.
// Маскирование необратимо: исходные значения не сохраняются.
// Если данные не сериализуются, возвращается исходное значение.
func Mask(data any) any {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		if m, ok := data.(map[string]any); ok {
			return maskShallow(m)
		}
		return data
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return data
	}
	return maskValue(generic)
}

func maskValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if repl, ok := replacement(k); ok {
				t[k] = repl
				continue
			}
			t[k] = maskValue(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = maskValue(t[i])
		}
		return t
	default:
		return v
	}
}

func maskShallow(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if repl, ok := replacement(k); ok {
			out[k] = repl
			continue
		}
		out[k] = v
	}
	return out
}

// replacement ключи сравниваются без учёта регистра, '_' и '-'
func replacement(key string) (string, bool) {
	k := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(key))
	switch k {
	case "password", "token":
		return maskedSecret, true
	case "creditcard":
		return maskedCard, true
	}
	return "", false
}
