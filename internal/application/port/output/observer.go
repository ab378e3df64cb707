package output

import "browser-harness/internal/domain/entity"

type QueryObserver interface {
	ObserveQuery(record entity.QueryRecord)
}

// Observers fans a record out to every observer in order.
type Observers []QueryObserver

func (o Observers) ObserveQuery(record entity.QueryRecord) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveQuery(record)
		}
	}
}
