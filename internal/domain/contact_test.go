package domain_test

import (
	"encoding/json"
	"testing"

	"portfolio-contact-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterests_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.Interests
	}{
		{"Single string", `{"interest":"Web design"}`, domain.Interests{"Web design"}},
		{"List of strings", `{"interest":["Web design","Other"]}`, domain.Interests{"Web design", "Other"}},
		{"Null", `{"interest":null}`, nil},
		{"Absent", `{}`, nil},
		{"Scalar number", `{"interest":42}`, domain.Interests{"42"}},
		{"Nulls in list are dropped", `{"interest":["SEO",null]}`, domain.Interests{"SEO"}},
		{"Mixed list keeps JSON text", `{"interest":[1, {"a": 1}, true, ["x"]]}`, domain.Interests{"1", `{"a":1}`, "true", `["x"]`}},
		{"Single object keeps JSON text", `{"interest":{"a":"b"}}`, domain.Interests{`{"a":"b"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req domain.ContactRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Interest)
		})
	}
}

func TestInterests_Join(t *testing.T) {
	var req domain.ContactRequest
	require.NoError(t, json.Unmarshal([]byte(`{"interest":[1,{"a":1},true]}`), &req))

	assert.Equal(t, `1, {"a":1}, true`, req.Interest.Join())
	assert.NotContains(t, req.Interest.Join(), "map[")
}
