package optimizer

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/windlidar/campaign-planner/internal/optimizer"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
