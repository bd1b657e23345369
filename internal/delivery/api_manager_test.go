package delivery

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/request/model"
)

func Test_getState(t *testing.T) {
	tests := []struct {
		status  string
		want    ShipmentState
		wantErr bool
	}{
		{"REGISTERED", NotDispatched, false},
		{"PICKED", InTransit, false},
		{"IN_TRANSIT", InTransit, false},
		{"DELIVERED", Delivered, false},
		{"LOST", Undefined, true},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got, err := getState(tt.status)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_mapStateOnStatus(t *testing.T) {
	assert.Equal(t, model.NotStarted, mapStateOnStatus(NotDispatched))
	assert.Equal(t, model.Started, mapStateOnStatus(InTransit))
	assert.Equal(t, model.Done, mapStateOnStatus(Delivered))
	assert.Equal(t, model.NotStarted, mapStateOnStatus(Undefined))
}

func Test_apiManager_updF(t *testing.T) {
	statuses := map[string]string{
		"r1": "DELIVERED",
		"r2": "IN_TRANSIT",
		"r3": "REGISTERED",
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if _, err := fmt.Sscanf(r.URL.Path, "/api/shipments/%s", &id); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if id == "r5" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		status, ok := statuses[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"request":%q,"status":%q}`, id, status)
	}))
	defer ts.Close()

	m := &apiManager{client: http.Client{}, host: ts.URL, logger: zap.NewExample().Sugar()}
	result := m.updF([]string{"r1", "r2", "r3", "r4", "r5"})

	assert.Equal(t, map[string]model.DeliveryStatus{
		"r1": model.Done,
		"r2": model.Started,
		"r3": model.NotStarted,
		"r4": model.NotStarted, // courier has not registered r4 yet
		// r5 answered 500 and is skipped until the next pass
	}, result)
}
