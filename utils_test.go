package tableview

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpacePascalCase(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		want     string
	}{
		{testName: "", name: "", want: ""},
		{testName: "ID", name: "ID", want: "ID"},
		{testName: "CompanyID", name: "CompanyID", want: "Company ID"},
		{testName: "HelloWorld", name: "HelloWorld", want: "Hello World"},
		{testName: "_Hello_World", name: "_Hello_World", want: "Hello World"},
		{testName: "helloWorld", name: "helloWorld", want: "hello World"},
		{testName: "helloWorld_", name: "helloWorld_", want: "hello World"},
		{testName: "first_name", name: "first_name", want: "first name"},
		{testName: "ThisHasMore_Spaces__ForSure", name: "ThisHasMore_Spaces__ForSure", want: "This Has More Spaces For Sure"},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			if got := SpacePascalCase(tt.name); got != tt.want {
				t.Errorf("SpacePascalCase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueIsNil(t *testing.T) {
	var (
		nilPtr   *int
		nilSlice []string
		nilMap   map[string]any
		nilFunc  func()
		nilIface error
	)
	for _, v := range []any{nil, nilPtr, nilSlice, nilMap, nilFunc, struct{}{}} {
		assert.True(t, ValueIsNil(reflect.ValueOf(v)), "%#v", v)
	}
	assert.True(t, ValueIsNil(reflect.ValueOf(&nilIface).Elem()))

	for _, v := range []any{0, "", false, []string{}, struct{ X int }{}, new(int)} {
		assert.False(t, ValueIsNil(reflect.ValueOf(v)), "%#v", v)
	}
}

func TestRemoveEmptyStringRows(t *testing.T) {
	rows := [][]string{
		{" ", "\t"},
		{"a", ""},
		{},
		{"", "b"},
		nil,
	}
	got := RemoveEmptyStringRows(rows)
	assert.Equal(t, [][]string{{"a", ""}, {"", "b"}}, got)
	assert.Equal(t, []string{" ", "\t"}, rows[0], "input not modified")
	assert.Nil(t, RemoveEmptyStringRows(nil))
}
