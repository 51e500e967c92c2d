// Package properties converts node properties into the JSON shape expected
// by the UI.
package properties

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-cms-ui/internal/logging"
	"github.com/goliatone/go-cms-ui/internal/nodes"
	"github.com/goliatone/go-cms-ui/pkg/interfaces"
)

// Declared property types with a dedicated conversion.
const (
	TypeDateTime   = "DateTime"
	TypeBoolean    = "boolean"
	TypeInteger    = "integer"
	TypeFloat      = "float"
	TypeString     = "string"
	TypeReference  = "reference"
	TypeReferences = "references"
)

// DateTimeLayout is the ATOM date format used for every date in a node
// record. UTC is written as +00:00.
const DateTimeLayout = "2006-01-02T15:04:05-07:00"

// Converter turns raw properties into JSON friendly values.
type Converter struct {
	logger interfaces.Logger
}

func NewConverter(logger interfaces.Logger) *Converter {
	return &Converter{logger: logging.Ensure(logger)}
}

// GetPropertiesArray converts the properties of node. Declared properties
// are coerced to their declared type and filled from defaults when absent;
// undeclared properties pass through unchanged. Values that cannot be
// converted are dropped.
func (c *Converter) GetPropertiesArray(node *nodes.Node, nodeType *nodes.NodeType) map[string]any {
	out := map[string]any{}
	if node == nil {
		return out
	}
	maps.Copy(out, node.Properties)
	if nodeType == nil {
		return out
	}

	for _, name := range nodeType.PropertyNames() {
		definition := nodeType.Properties[name]
		value, ok := node.Properties[name]
		if !ok || value == nil {
			value = definition.DefaultValue
		}
		if value == nil {
			delete(out, name)
			continue
		}
		converted, err := Convert(definition.Type, value)
		if err != nil {
			c.logger.Debug("properties.convert.failed", "property", name, "type", definition.Type, "error", err)
			delete(out, name)
			continue
		}
		out[name] = converted
	}
	return out
}

// Convert coerces value to the JSON form of propertyType.
func Convert(propertyType string, value any) (any, error) {
	switch propertyType {
	case TypeDateTime:
		return toDateTime(value)
	case TypeBoolean:
		return toBool(value)
	case TypeInteger:
		return toInt(value)
	case TypeFloat:
		return toFloat(value)
	case TypeString:
		return fmt.Sprint(value), nil
	case TypeReference:
		return toReference(value)
	case TypeReferences:
		return toReferences(value)
	default:
		return value, nil
	}
}

func toDateTime(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(DateTimeLayout), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Format(DateTimeLayout), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		return parsed.Format(DateTimeLayout), nil
	}
	return nil, fmt.Errorf("unsupported DateTime value %T", value)
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	}
	return false, fmt.Errorf("unsupported boolean value %T", value)
}

func toInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("unsupported integer value %T", value)
}

// floatToInt accepts only integral values inside the int64 range.
func floatToInt(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("integer value %v has a fractional part", v)
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, fmt.Errorf("integer value %v overflows int64", v)
	}
	return int64(v), nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("unsupported float value %T", value)
}

func toReference(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nodes.NodeAggregateID:
		return string(v), nil
	case *nodes.Node:
		if v == nil {
			return nil, nil
		}
		return string(v.NodeAggregateID), nil
	}
	return nil, fmt.Errorf("unsupported reference value %T", value)
}

func toReferences(value any) ([]string, error) {
	out := []string{}
	switch v := value.(type) {
	case []string:
		return append(out, v...), nil
	case []nodes.NodeAggregateID:
		for _, id := range v {
			out = append(out, string(id))
		}
		return out, nil
	case []any:
		for _, item := range v {
			ref, err := toReference(item)
			if err != nil {
				return nil, err
			}
			if s, ok := ref.(string); ok {
				out = append(out, s)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported references value %T", value)
}
