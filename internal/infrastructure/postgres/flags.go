package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

// truthyText valores de texto que las instalaciones antiguas usan para "activo".
var truthyText = []string{"1", "OK", "S", "SI", "SÍ", "T", "TRUE", "Y", "YES"}

// parseFlag normaliza un indicador activo/inactivo leído de la BD. NULL es falso.
func parseFlag(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case int:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	case []byte:
		return parseFlagText(string(x))
	case string:
		return parseFlagText(x)
	default:
		return parseFlagText(fmt.Sprint(x))
	}
}

func parseFlagText(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, t := range truthyText {
		if s == t {
			return true
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n != 0
	}
	return false
}

// flagPredicate condición SQL "column está activo" según el tipo real de la columna.
// column debe venir de código, nunca de la entrada del usuario.
func flagPredicate(column string, kind repository.FlagKind) string {
	switch kind {
	case repository.FlagNumeric:
		return fmt.Sprintf("COALESCE(%s, 0) <> 0", column)
	case repository.FlagText:
		quoted := make([]string, len(truthyText))
		for i, t := range truthyText {
			quoted[i] = "'" + t + "'"
		}
		return fmt.Sprintf("UPPER(TRIM(%s)) IN (%s)", column, strings.Join(quoted, ", "))
	default:
		return fmt.Sprintf("COALESCE(%s, FALSE)", column)
	}
}

// flagKindFromDataType traduce information_schema.columns.data_type a FlagKind. ok=false para
// tipos que no se saben filtrar (bit, USER-DEFINED, ...): la columna se ignora.
func flagKindFromDataType(dataType string) (kind repository.FlagKind, ok bool) {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "boolean":
		return repository.FlagBoolean, true
	case "smallint", "integer", "bigint", "numeric", "real", "double precision":
		return repository.FlagNumeric, true
	case "text", "character varying", "character":
		return repository.FlagText, true
	default:
		return "", false
	}
}
