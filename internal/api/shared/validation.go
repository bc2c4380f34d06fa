package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error types reported in FieldError.Type.
const (
	ErrTypeMissing         = "missing"
	ErrTypeIntParsing      = "int_parsing"
	ErrTypeIntParsingSize  = "int_parsing_size"
	ErrTypeIntType         = "int_type"
	ErrTypeIntFromFloat    = "int_from_float"
	ErrTypeListType        = "list_type"
	ErrTypeJSONInvalid     = "json_invalid"
	ErrTypeModelAttributes = "model_attributes_type"
	ErrTypeValueError      = "value_error"
)

const (
	msgFieldRequired       = "Field required"
	msgIntParsing          = "Input should be a valid integer, unable to parse string as an integer"
	msgIntParsingSize      = "Input should be a valid integer, unable to parse input as an integer"
	msgIntType             = "Input should be a valid integer"
	msgIntFromFloat        = "Input should be a valid integer, got a number with a fractional part"
	msgListType            = "Input should be a valid list"
	msgJSONInvalid         = "JSON decode error"
	msgModelAttributesType = "Input should be a valid dictionary or object to extract fields from"

	locQuery = "query"
	locBody  = "body"
)

// FieldError describes why one input location failed validation.
type FieldError struct {
	Type  string         `json:"type"`
	Loc   []any          `json:"loc"`
	Msg   string         `json:"msg"`
	Input any            `json:"input"`
	Ctx   map[string]any `json:"ctx,omitempty"`
}

// ValidationErrors collects every field error of one request.
type ValidationErrors []FieldError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%v: %s", fe.Loc, fe.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RequiredQuery returns the value of a mandatory query parameter. An empty
// value counts as present. When the parameter is repeated the last value wins.
func RequiredQuery(q url.Values, name string) (string, *FieldError) {
	vs := q[name]
	if len(vs) == 0 {
		return "", &FieldError{Type: ErrTypeMissing, Loc: []any{locQuery, name}, Msg: msgFieldRequired}
	}
	return vs[len(vs)-1], nil
}

// QueryInt returns a mandatory query parameter parsed as a base-10 int64.
func QueryInt(q url.Values, name string) (int64, *FieldError) {
	raw, fe := RequiredQuery(q, name)
	if fe != nil {
		return 0, fe
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &FieldError{Type: ErrTypeIntParsing, Loc: []any{locQuery, name}, Msg: msgIntParsing, Input: raw}
	}
	return n, nil
}

// BodyDecodeErrors translates an error returned by DecodeJSON into field
// errors. It returns nil when err is not caused by the body's content, for
// instance when the body exceeded the size limit.
func BodyDecodeErrors(err error) ValidationErrors {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var trailingErr *TrailingDataError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return ValidationErrors{{Type: ErrTypeMissing, Loc: []any{locBody}, Msg: msgFieldRequired}}
	case errors.As(err, &trailingErr):
		return ValidationErrors{{
			Type:  ErrTypeJSONInvalid,
			Loc:   []any{locBody, trailingErr.Offset},
			Msg:   msgJSONInvalid,
			Input: map[string]any{},
			Ctx:   map[string]any{"error": trailingErr.Error()},
		}}
	case errors.As(err, &syntaxErr):
		return ValidationErrors{{
			Type:  ErrTypeJSONInvalid,
			Loc:   []any{locBody, syntaxErr.Offset},
			Msg:   msgJSONInvalid,
			Input: map[string]any{},
			Ctx:   map[string]any{"error": syntaxErr.Error()},
		}}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return ValidationErrors{{
			Type:  ErrTypeJSONInvalid,
			Loc:   []any{locBody},
			Msg:   msgJSONInvalid,
			Input: map[string]any{},
			Ctx:   map[string]any{"error": err.Error()},
		}}
	case errors.As(err, &typeErr):
		return ValidationErrors{typeMismatch(typeErr)}
	default:
		return nil
	}
}

func typeMismatch(e *json.UnmarshalTypeError) FieldError {
	loc := []any{locBody}
	if e.Field != "" {
		for _, part := range strings.Split(e.Field, ".") {
			loc = append(loc, part)
		}
	}

	fe := FieldError{Loc: loc, Input: e.Value}
	switch kind := e.Type.Kind(); {
	case e.Field == "" || kind == reflect.Struct || kind == reflect.Map:
		fe.Type, fe.Msg = ErrTypeModelAttributes, msgModelAttributesType
	case kind == reflect.Slice || kind == reflect.Array:
		fe.Type, fe.Msg = ErrTypeListType, msgListType
	case kind >= reflect.Int && kind <= reflect.Uint64:
		fe.Type, fe.Msg = ErrTypeIntType, msgIntType
	default:
		fe.Type, fe.Msg = e.Type.Kind().String()+"_type", "Input should be a valid "+e.Type.Kind().String()
	}
	return fe
}

// StructErrors translates validator errors into field errors located under
// prefix. Errors of other types yield nil.
func StructErrors(err error, prefix ...any) ValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		loc := append(append([]any{}, prefix...), fieldPath(fe.Namespace())...)
		if fe.Tag() == "required" {
			out = append(out, FieldError{Type: ErrTypeMissing, Loc: loc, Msg: msgFieldRequired})
			continue
		}
		out = append(out, FieldError{
			Type:  ErrTypeValueError,
			Loc:   loc,
			Msg:   fmt.Sprintf("Value error, failed on the '%s' rule", fe.Tag()),
			Input: fe.Value(),
		})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace such as
// "SumListRequest.nums".
func fieldPath(namespace string) []any {
	parts := strings.Split(namespace, ".")
	out := make([]any, 0, len(parts))
	for _, p := range parts[1:] {
		out = append(out, p)
	}
	return out
}

// ParseList unmarshals a raw JSON value that must be a list. An explicit null
// or any other non-list value yields a list_type error located at loc.
func ParseList(raw json.RawMessage, loc ...any) ([]json.RawMessage, *FieldError) {
	var items []json.RawMessage
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err == nil {
			return items, nil
		}
	}

	var input any
	_ = json.Unmarshal(raw, &input)
	return nil, &FieldError{
		Type:  ErrTypeListType,
		Loc:   append([]any{}, loc...),
		Msg:   msgListType,
		Input: input,
	}
}

// ParseIntItems converts raw JSON list items to int64 values. Integers,
// integral floats and strings holding integers are accepted; every other item
// produces a field error located at loc followed by its index.
func ParseIntItems(items []json.RawMessage, loc ...any) ([]int64, ValidationErrors) {
	nums := make([]int64, 0, len(items))
	var errs ValidationErrors

	for i, raw := range items {
		itemLoc := append(append([]any{}, loc...), i)
		n, fe := parseIntItem(raw)
		if fe != nil {
			fe.Loc = itemLoc
			errs = append(errs, *fe)
			continue
		}
		nums = append(nums, n)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return nums, nil
}

func parseIntItem(raw json.RawMessage) (int64, *FieldError) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return 0, &FieldError{Type: ErrTypeIntType, Msg: msgIntType}
	}

	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, &FieldError{Type: ErrTypeIntType, Msg: msgIntType}
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, &FieldError{Type: ErrTypeIntParsing, Msg: msgIntParsing, Input: s}
		}
		return n, nil

	case c == '-' || (c >= '0' && c <= '9'):
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsInf(f, 0) {
			return 0, &FieldError{Type: ErrTypeIntParsingSize, Msg: msgIntParsingSize, Input: json.Number(trimmed)}
		}
		if f != math.Trunc(f) {
			return 0, &FieldError{Type: ErrTypeIntFromFloat, Msg: msgIntFromFloat, Input: f}
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, &FieldError{Type: ErrTypeIntParsingSize, Msg: msgIntParsingSize, Input: json.Number(trimmed)}
		}
		return int64(f), nil

	default:
		var input any
		_ = json.Unmarshal(raw, &input)
		return 0, &FieldError{Type: ErrTypeIntType, Msg: msgIntType, Input: input}
	}
}
