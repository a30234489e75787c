package sensor

import (
	"net/http"

	"github.com/sastro1825/monitoringsuhu/internal/server/modules/sensor/controller"
	"github.com/sastro1825/monitoringsuhu/internal/server/modules/sensor/store"
)

func RegisterFeature(mux *http.ServeMux, st *store.Store) {
	sensorController := controller.NewSensorController(st)
	sensorController.RegisterRoutes(mux)
}
