package pagination_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nq-browser/internal/common/pagination"
)

func TestResponse_JSONShape(t *testing.T) {
	type item struct {
		Question string `json:"question"`
	}

	resp := pagination.NewResponse([]item{{Question: "q21"}}, pagination.NewMetadata(25, 3, 10))
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"data":[{"question":"q21"}],"totalRecords":25,"pageSize":10,"totalPages":3,"currentPage":3}`,
		string(b))
}

func TestResponse_NilDataEncodesAsEmptyArray(t *testing.T) {
	resp := pagination.NewResponse[string](nil, pagination.NewMetadata(0, 1, 10))
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"data":[],"totalRecords":0,"pageSize":10,"totalPages":0,"currentPage":1}`,
		string(b))
}
