package dispatch

import "github.com/rajasatyajit/roadside/internal/models"

// Live status thresholds in meters
const (
	onTheWayBeyond = 5000
	arrivingBeyond = 500
	arrivedWithin  = 50
)

// LiveStatus maps the remaining distance of an assigned mechanic to a label
func LiveStatus(distanceMeters float64) models.LiveStatus {
	switch {
	case distanceMeters > onTheWayBeyond:
		return models.LiveAssigned
	case distanceMeters > arrivingBeyond:
		return models.LiveOnTheWay
	case distanceMeters > arrivedWithin:
		return models.LiveArriving
	default:
		return models.LiveArrived
	}
}
