package handler

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

func requireRequest(req *structpb.Struct) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	return nil
}

func field(req *structpb.Struct, name string) (*structpb.Value, bool) {
	if req == nil {
		return nil, false
	}
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// stringField は文字列フィールドを返します。存在しない場合は空文字です。
func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := field(req, name)
	if !ok {
		return "", nil
	}
	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}
	return s.StringValue, nil
}

// optionalStringField は存在する場合のみ値を返します。
func optionalStringField(req *structpb.Struct, name string) (*string, error) {
	if _, ok := field(req, name); !ok {
		return nil, nil
	}
	s, err := stringField(req, name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func boolField(req *structpb.Struct, name string) (bool, error) {
	v, ok := field(req, name)
	if !ok {
		return false, nil
	}
	b, isBool := v.GetKind().(*structpb.Value_BoolValue)
	if !isBool {
		return false, status.Errorf(codes.InvalidArgument, "%s must be a boolean", name)
	}
	return b.BoolValue, nil
}

func numberField(req *structpb.Struct, name string) (float64, bool, error) {
	v, ok := field(req, name)
	if !ok {
		return 0, false, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, false, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	return n.NumberValue, true, nil
}

func intField(req *structpb.Struct, name string) (int, error) {
	n, ok, err := numberField(req, name)
	if err != nil || !ok {
		return 0, err
	}
	if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
	return int(n), nil
}

// dateField は YYYY-MM-DD 形式の日付を返します。空または未指定の場合は nil です。
func dateField(req *structpb.Struct, name string) (*time.Time, error) {
	s, err := stringField(req, name)
	if err != nil || s == "" {
		return nil, err
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: %v", name, err))
	}
	return &t, nil
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return s, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
