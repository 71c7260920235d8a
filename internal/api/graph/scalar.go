package graph

import (
	"fmt"
	"strconv"
	"time"
)

// DateTime 以毫秒时间戳输出，输入兼容时间戳与 ISO 字符串
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func (DateTime) ImplementsGraphQLType(name string) bool {
	return name == "DateTime"
}

func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case int32:
		t.Time = time.UnixMilli(int64(v))
	case int64:
		t.Time = time.UnixMilli(v)
	case float64:
		t.Time = time.UnixMilli(int64(v))
	case string:
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms)
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("invalid DateTime %q: %w", v, err)
		}
		t.Time = parsed
	default:
		return fmt.Errorf("wrong type for DateTime: %T", input)
	}
	return nil
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, t.UnixMilli(), 10), nil
}
