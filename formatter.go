package tableview

import (
	"errors"
	"fmt"
	"reflect"
)

// Formatter converts a reflect.Value to a string.
// It returns errors.ErrUnsupported if it doesn't support the value's type.
type Formatter interface {
	Format(reflect.Value) (string, error)
}

// FormatterFunc implements Formatter with a function.
type FormatterFunc func(reflect.Value) (string, error)

func (f FormatterFunc) Format(v reflect.Value) (string, error) {
	return f(v)
}

// SprintFormatter formats any value with fmt.Sprint.
type SprintFormatter struct{}

func (SprintFormatter) Format(v reflect.Value) (string, error) {
	return fmt.Sprint(v.Interface()), nil
}

// PrintfFormatter formats values by calling fmt.Sprintf
// with the underlying string as format.
type PrintfFormatter string

func (format PrintfFormatter) Format(v reflect.Value) (string, error) {
	return fmt.Sprintf(string(format), v.Interface()), nil
}

// UnsupportedFormatter always returns errors.ErrUnsupported.
type UnsupportedFormatter struct{}

func (UnsupportedFormatter) Format(v reflect.Value) (string, error) {
	return "", errors.ErrUnsupported
}

// FormatValue formats a field value for display.
// Nil like values are formatted as empty string,
// pointers are dereferenced.
// A non empty format is used as fmt.Sprintf format,
// else the value is formatted with fmt.Sprint.
func FormatValue(value any, format string) string {
	var f Formatter = SprintFormatter{}
	if format != "" {
		f = PrintfFormatter(format)
	}
	str, err := FormatReflectValue(reflect.ValueOf(value), f)
	if err != nil {
		return fmt.Sprint(value)
	}
	return str
}

// FormatReflectValue formats v with f using the same
// nil and pointer handling as FormatValue.
// If f returns errors.ErrUnsupported then fmt.Sprint is used.
func FormatReflectValue(v reflect.Value, f Formatter) (string, error) {
	if ValueIsNil(v) {
		return "", nil
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
		if ValueIsNil(v) {
			return "", nil
		}
	}
	if f == nil {
		f = SprintFormatter{}
	}
	str, err := f.Format(v)
	if errors.Is(err, errors.ErrUnsupported) {
		return fmt.Sprint(v.Interface()), nil
	}
	return str, err
}
