package golang

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"

	"github.com/esassoc/SqlCodeGen/compiler/gen"
)

const uuidPkg = "github.com/google/uuid"

// kind is the Go type family of a SQL column type.
type kind int

const (
	kindAny kind = iota
	kindInt
	kindInt64
	kindInt16
	kindUint8
	kindBool
	kindFloat64
	kindFloat32
	kindString
	kindTime
	kindUUID
	kindBytes
)

var kinds = map[string]kind{
	"int":              kindInt,
	"bigint":           kindInt64,
	"smallint":         kindInt16,
	"tinyint":          kindUint8,
	"bit":              kindBool,
	"decimal":          kindFloat64,
	"numeric":          kindFloat64,
	"money":            kindFloat64,
	"smallmoney":       kindFloat64,
	"float":            kindFloat64,
	"real":             kindFloat32,
	"char":             kindString,
	"varchar":          kindString,
	"nchar":            kindString,
	"nvarchar":         kindString,
	"text":             kindString,
	"ntext":            kindString,
	"sysname":          kindString,
	"xml":              kindString,
	"date":             kindTime,
	"time":             kindTime,
	"datetime":         kindTime,
	"datetime2":        kindTime,
	"smalldatetime":    kindTime,
	"datetimeoffset":   kindTime,
	"uniqueidentifier": kindUUID,
	"binary":           kindBytes,
	"varbinary":        kindBytes,
	"image":            kindBytes,
	"rowversion":       kindBytes,
	"timestamp":        kindBytes,
}

func kindOf(f *gen.Field) kind {
	return kinds[strings.ToLower(f.Type)]
}

// baseType returns the Go type of a field, without pointer.
func baseType(f *gen.Field) *jen.Statement {
	switch kindOf(f) {
	case kindInt:
		return jen.Int()
	case kindInt64:
		return jen.Int64()
	case kindInt16:
		return jen.Int16()
	case kindUint8:
		return jen.Uint8()
	case kindBool:
		return jen.Bool()
	case kindFloat64:
		return jen.Float64()
	case kindFloat32:
		return jen.Float32()
	case kindString:
		return jen.String()
	case kindTime:
		return jen.Qual("time", "Time")
	case kindUUID:
		return jen.Qual(uuidPkg, "UUID")
	case kindBytes:
		return jen.Index().Byte()
	default:
		return jen.Any()
	}
}

// goType returns the Go type of the struct field. Nullable columns are
// pointers, except byte slices and untyped values that already have nil.
func goType(f *gen.Field) *jen.Statement {
	if nilable(f) {
		return jen.Op("*").Add(baseType(f))
	}
	return baseType(f)
}

func nilable(f *gen.Field) bool {
	k := kindOf(f)
	return f.IsNullable() && k != kindBytes && k != kindAny
}

// literal returns the Go literal of a seed value for f. It reports false
// for NULL and for values that do not parse as the field type; callers
// leave such fields at their zero value.
func literal(f *gen.Field, c gen.Cell) (jen.Code, bool) {
	if c.Null {
		return nil, false
	}
	raw := strings.TrimSpace(c.Raw)
	var v jen.Code
	switch k := kindOf(f); k {
	case kindUint8:
		n, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			return nil, false
		}
		v = jen.Lit(int(n))
	case kindInt, kindInt64, kindInt16:
		n, err := strconv.ParseInt(raw, 10, bitSize(k))
		if err != nil {
			return nil, false
		}
		v = jen.Lit(int(n))
	case kindBool:
		switch strings.ToLower(raw) {
		case "1", "true":
			v = jen.True()
		case "0", "false":
			v = jen.False()
		default:
			return nil, false
		}
	case kindFloat64, kindFloat32:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		v = jen.Lit(n)
	case kindString:
		v = jen.Lit(c.Raw)
	case kindTime:
		ts, ok := parseTime(raw)
		if !ok {
			return nil, false
		}
		v = jen.Qual("time", "Date").Call(
			jen.Lit(ts.Year()), jen.Qual("time", ts.Month().String()), jen.Lit(ts.Day()),
			jen.Lit(ts.Hour()), jen.Lit(ts.Minute()), jen.Lit(ts.Second()), jen.Lit(ts.Nanosecond()),
			jen.Qual("time", "UTC"),
		)
	case kindUUID:
		u, err := uuid.Parse(raw)
		if err != nil {
			return nil, false
		}
		v = jen.Qual(uuidPkg, "MustParse").Call(jen.Lit(u.String()))
	case kindBytes:
		b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X"))
		if err != nil {
			return nil, false
		}
		return jen.Index().Byte().Call(jen.Lit(string(b))), true
	default:
		return jen.Lit(c.Raw), true
	}
	if nilable(f) {
		return jen.Id("ptr").Types(baseType(f)).Call(v), true
	}
	return v, true
}

func bitSize(k kind) int {
	switch k {
	case kindInt16:
		return 16
	case kindInt:
		return strconv.IntSize
	default:
		return 64
	}
}

// timeLayouts are the literal formats accepted for date and time columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999",
	"20060102",
}

func parseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
