package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampDecodesBackendLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"zone-less", `"2024-03-01T10:15:30"`, time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)},
		{"zone-less fraction", `"2024-03-01T10:15:30.123"`, time.Date(2024, 3, 1, 10, 15, 30, 123000000, time.UTC)},
		{"rfc3339", `"2024-03-01T10:15:30Z"`, time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)},
		{"date only", `"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestampNullAndInvalid(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","createdAt":null}`), &p))
	assert.Nil(t, p.CreatedAt)
	assert.True(t, p.CreatedAt.TimeOrZero().IsZero())

	err := json.Unmarshal([]byte(`{"createdAt":"yesterday"}`), &p)
	assert.Error(t, err)
}

func TestProductStatus(t *testing.T) {
	status, ok := ParseProductStatus(" approved ")
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, status)

	_, ok = ParseProductStatus("draft")
	assert.False(t, ok)
	assert.False(t, ProductStatus("ALL").Valid())
}

func TestCartCloneIsDeep(t *testing.T) {
	original := &Cart{ID: 1, Items: []CartItem{{ID: 10, ProductID: 7, Quantity: 1}}}

	clone := original.Clone()
	clone.Items[0].Quantity = 5

	assert.Equal(t, 1, original.Items[0].Quantity)
	assert.Nil(t, (*Cart)(nil).Clone())

	item, ok := original.FindItem(7)
	assert.True(t, ok)
	assert.Equal(t, int64(10), item.ID)
}

func TestAddCartItemRequestWireShape(t *testing.T) {
	body, err := json.Marshal(AddCartItemRequest{CartID: 3, ProductID: 7, Quantity: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cartId":3,"productId":7,"quantity":1}`, string(body))
}
