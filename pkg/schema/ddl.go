package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE IF NOT EXISTS statement from struct
// tags.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Document DDL methods
func (d Document) TableDDL() string {
	return generateDDL(d, d.TableName())
}

func (d Document) IndexDDL() []string {
	return []string{}
}

func (d Document) TableName() string {
	return "documents"
}

// Analysis DDL methods
func (a Analysis) TableDDL() string {
	return generateDDL(a, a.TableName())
}

func (a Analysis) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_analyses_document_id ON analyses(document_id);",
	}
}

func (a Analysis) TableName() string {
	return "analyses"
}
