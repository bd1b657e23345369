package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/db"
	"github.com/mir2x/herpill-dashboard/internal/request/model"
)

type apiManager struct {
	client http.Client
	host   string
	db     db.Storage
	logger *zap.SugaredLogger
}

type response struct {
	Request string `json:"request"`
	Status  string `json:"status"`
}

const url = "%v/api/shipments/%v"

type ShipmentState int

const (
	NotDispatched ShipmentState = iota
	InTransit
	Delivered
	Undefined
)

func getState(status string) (ShipmentState, error) {
	switch status {
	case "REGISTERED":
		return NotDispatched, nil
	case "PICKED", "IN_TRANSIT":
		return InTransit, nil
	case "DELIVERED":
		return Delivered, nil
	default:
		return Undefined, errors.New("undefined status")
	}
}

func (m *apiManager) getShipment(id string) (ShipmentState, error) {
	if r, err := m.client.Get(fmt.Sprintf(url, m.host, id)); err != nil {
		return Undefined, err
	} else {
		defer r.Body.Close()
		switch r.StatusCode {
		case 200:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				return Undefined, err
			}
			res := &response{}
			if err := json.Unmarshal(body, res); err != nil {
				return Undefined, err
			}
			return getState(res.Status)
		// the courier has not registered the shipment yet
		case 404:
			return NotDispatched, nil
		// 429, 500: leave the request for the next pass
		default:
			return Undefined, fmt.Errorf("courier answered %v", r.StatusCode)
		}
	}
}

func mapStateOnStatus(s ShipmentState) model.DeliveryStatus {
	switch s {
	case InTransit:
		return model.Started
	case Delivered:
		return model.Done
	default:
		return model.NotStarted
	}
}

func (m *apiManager) updF(ids []string) map[string]model.DeliveryStatus {
	result := make(map[string]model.DeliveryStatus)
	for i := 0; i < len(ids); i++ {
		if state, err := m.getShipment(ids[i]); err != nil {
			m.logger.Errorf("update delivery of request %v failed: %v", ids[i], err)
		} else {
			result[ids[i]] = mapStateOnStatus(state)
		}
	}
	return result
}

func (m *apiManager) runSyncDeliveries() {
	offset := 0
	limit := 10
	for {
		selectedCount, err := m.db.SyncDeliveries(offset, limit, m.updF)
		if err != nil {
			m.logger.Errorf("error on runSyncDeliveries: %v", err)
			return
		}
		if selectedCount < limit {
			return
		}

		offset += limit
	}
}

var once sync.Once

func RunDaemon(client http.Client, host string, db db.Storage, logger *zap.SugaredLogger, ctx context.Context, wg *sync.WaitGroup) {
	once.Do(func() {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ticker := time.NewTicker(time.Second * 10)
			defer ticker.Stop()
			m := &apiManager{client, host, db, logger}
			for {
				select {
				case <-ticker.C:
					logger.Infof("run update deliveries...")
					m.runSyncDeliveries()

				case <-ctx.Done():
					return
				}
			}
		}()
	})
}
