package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokarboss/manager-ya/internal/service"
	"github.com/tokarboss/manager-ya/internal/storage"
)

func TestSelectManager(t *testing.T) {
	tests := []struct {
		name   string
		loads  []storage.ManagerLoad
		wantID int64
		wantOK bool
	}{
		{name: "empty pool"},
		{
			name:   "single",
			loads:  []storage.ManagerLoad{{ManagerID: 9, Count: 4}},
			wantID: 9,
			wantOK: true,
		},
		{
			name: "minimum wins",
			loads: []storage.ManagerLoad{
				{ManagerID: 1, Count: 3},
				{ManagerID: 2, Count: 1},
				{ManagerID: 3, Count: 2},
			},
			wantID: 2,
			wantOK: true,
		},
		{
			name: "tie goes to lowest id regardless of order",
			loads: []storage.ManagerLoad{
				{ManagerID: 30, Count: 1},
				{ManagerID: 10, Count: 1},
				{ManagerID: 20, Count: 1},
			},
			wantID: 10,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := service.SelectManager(tt.loads)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, got.ManagerID)
		})
	}
}
