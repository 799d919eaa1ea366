package convert

import (
	"reflect"
	"slices"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructAssign copies fields with matching names from src into dst.
// StructAssign 把 src 与 dst 同名字段的值复制到 dst
func StructAssign(src any, dst any) any {
	_ = copier.Copy(dst, src)
	return dst
}

// StructToModelMap collects the gorm column values of param into data,
// skipping the named fields.
// StructToModelMap 按 gorm column 标签收集字段值，跳过 skip 中的字段
func StructToModelMap(param any, data map[string]any, skip ...string) error {
	val := reflect.ValueOf(param)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return errors.New("not struct")
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		if slices.Contains(skip, typ.Field(i).Name) {
			continue
		}
		if column := gormTag(typ.Field(i).Tag.Get("gorm"))["column"]; column != "" {
			data[column] = val.Field(i).Interface()
		}
	}
	return nil
}

func gormTag(tag string) map[string]string {
	parts := make(map[string]string)
	for _, part := range strings.Split(tag, ";") {
		if kv := strings.SplitN(part, ":", 2); len(kv) == 2 {
			parts[kv[0]] = kv[1]
		}
	}
	return parts
}
