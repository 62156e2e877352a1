package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail":"Inactive user"}`, "Inactive user"},
		{"list", `{"detail":[{"loc":["body","password"],"msg":"too short"},{"msg":"bad date"}]}`, "password: too short; bad date"},
		{"object", `{"detail":{"code":"X"}}`, `{"code":"X"}`},
		{"missing", `{"message":"nope"}`, ""},
		{"not json", `Bad Gateway`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}
