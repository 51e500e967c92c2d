// Package api holds serialization helpers shared by the UI endpoints.
package api

import (
	"html/template"
	"reflect"
)

// EmptyArrayToObject replaces nil and empty maps, slices and arrays with an
// empty map so they serialize as {} instead of [] or null. Any other value is
// returned unchanged.
func EmptyArrayToObject(value any) any {
	if value == nil {
		return map[string]any{}
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return map[string]any{}
		}
	case reflect.Array:
		if rv.Len() == 0 {
			return map[string]any{}
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return map[string]any{}
		}
	}
	return value
}

// TemplateHelpers exposes the helpers to html/template.
func TemplateHelpers() template.FuncMap {
	return template.FuncMap{
		"emptyArrayToObject": EmptyArrayToObject,
	}
}
